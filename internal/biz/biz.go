package biz

import (
	"github.com/chatpulse/digestbot/internal/biz/usecase"
)

// Usecases contains all usecases
type Usecases struct {
	Autopost *usecase.AutopostUsecase
	Summary  *usecase.SummaryUsecase
}
