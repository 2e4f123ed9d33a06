// Package discord manages the bot's gateway session.
package discord

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus"
)

// Client is the Discord bot client
type Client struct {
	session *discordgo.Session
	ready   atomic.Bool
	log     logrus.FieldLogger
}

// NewClient creates a bot client for token. Call Start to connect.
func NewClient(token string, log logrus.FieldLogger) (*Client, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("failed to create discord session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsMessageContent

	c := &Client{
		session: session,
		log:     log.WithField("module", "discord"),
	}
	session.AddHandler(c.onReady)
	session.AddHandler(c.onGuildCreate)
	session.AddHandler(c.onDisconnect)
	session.AddHandler(c.onResumed)
	return c, nil
}

// Start opens the gateway connection
func (c *Client) Start() error {
	if err := c.session.Open(); err != nil {
		return fmt.Errorf("failed to open discord gateway: %w", err)
	}
	return nil
}

// Stop closes the gateway connection
func (c *Client) Stop() error {
	c.ready.Store(false)
	return c.session.Close()
}

// Ready reports whether the gateway handshake has completed
func (c *Client) Ready() bool {
	return c.ready.Load()
}

// Messages returns up to limit messages older than beforeID, newest first
func (c *Client) Messages(ctx context.Context, channelID string, limit int, beforeID string) ([]*discordgo.Message, error) {
	return c.session.ChannelMessages(channelID, limit, beforeID, "", "", discordgo.WithContext(ctx))
}

// Send posts content to a channel
func (c *Client) Send(ctx context.Context, channelID, content string) error {
	_, err := c.session.ChannelMessageSend(channelID, content, discordgo.WithContext(ctx))
	return err
}

func (c *Client) onReady(s *discordgo.Session, r *discordgo.Ready) {
	c.ready.Store(true)
	c.log.Infof("Logged in as %s, in %d guild(s)", r.User.String(), len(r.Guilds))
}

func (c *Client) onGuildCreate(s *discordgo.Session, g *discordgo.GuildCreate) {
	c.log.Infof("Guild available: %s (%s)", g.Name, g.ID)
}

func (c *Client) onDisconnect(s *discordgo.Session, d *discordgo.Disconnect) {
	c.ready.Store(false)
	c.log.Warn("Disconnected from gateway")
}

func (c *Client) onResumed(s *discordgo.Session, r *discordgo.Resumed) {
	c.ready.Store(true)
	c.log.Info("Gateway session resumed")
}
