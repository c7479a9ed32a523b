package biz

import (
	"github.com/rovi1013/coap-telegram-gateway/internal/biz/usecase"
)

// Usecases contains all usecases
type Usecases struct {
	Reconciler *usecase.Reconciler
	Relay      *usecase.Relay
}
