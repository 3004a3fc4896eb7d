// =================================================================================
// This is auto-generated by GoFrame CLI tool only once. Fill this file as you wish.
// =================================================================================

package quote

import (
	"github.com/Malowking/quoterisk/api/quote"
	"github.com/Malowking/quoterisk/internal/service"
)

type ControllerV1 struct {
	svc *service.Services
}

func NewV1(svc *service.Services) quote.IQuoteV1 {
	return &ControllerV1{svc: svc}
}
