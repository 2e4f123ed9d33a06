package mcp

// Tool names exposed to MCP clients
const (
	ToolListTargets     = "digestbot_list_targets"
	ToolCheckTarget     = "digestbot_check_target"
	ToolResendLast      = "digestbot_resend_last"
	ToolSetTargetActive = "digestbot_set_target_active"
	ToolTriggerSummary  = "digestbot_trigger_summary"
	ToolListSummaries   = "digestbot_list_summaries"
	ToolListUsage       = "digestbot_list_usage"
	ToolRecentLogs      = "digestbot_recent_logs"
)

// ToolDescriptions is shown to the model when it lists tools
var ToolDescriptions = map[string]string{
	ToolListTargets:     "List the X/Twitter and Truth Social accounts the bot watches, with their polling interval, channel and last delivered post.",
	ToolCheckTarget:     "Poll one watched account right now and post any new post to its Discord channel. Use when the user asks to check an account immediately.",
	ToolResendLast:      "Post the last delivered post of a watched account to its Discord channel again.",
	ToolSetTargetActive: "Pause or resume polling of a watched account.",
	ToolTriggerSummary:  "Summarize the last 24 hours of the watch channel now and post it to the summary channel.",
	ToolListSummaries:   "List recent daily summaries, newest first.",
	ToolListUsage:       "Show paid API call counts and estimated cost per service and month.",
	ToolRecentLogs:      "Show the bot's recent activity log, newest first.",
}
