package validation

import (
	"errors"
	"strings"

	"github.com/mmeshcher/ucp-checkout/internal/model"
)

var (
	errNoPayment     = errors.New("payment is missing")
	errNoInstruments = errors.New("payment.instruments is empty")
	errNoSelected    = errors.New("no selected payment instrument")
	errNoCredential  = errors.New("selected payment instrument has no credential token")
)

// SelectedInstrument возвращает выбранный платёжный инструмент.
func SelectedInstrument(p *model.Payment) (*model.PaymentInstrument, error) {
	if p == nil {
		return nil, errNoPayment
	}
	if len(p.Instruments) == 0 {
		return nil, errNoInstruments
	}

	for i := range p.Instruments {
		in := &p.Instruments[i]
		if !in.IsSelected() {
			continue
		}
		if in.Credential == nil || strings.TrimSpace(in.Credential.Token) == "" {
			return nil, errNoCredential
		}
		return in, nil
	}

	return nil, errNoSelected
}
