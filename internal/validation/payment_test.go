package validation

import (
	"testing"

	"github.com/mmeshcher/ucp-checkout/internal/model"
)

func TestSelectedInstrument(t *testing.T) {
	no := false
	token := &model.PaymentCredential{Type: "TOKEN", Token: "tok_1"}

	tests := []struct {
		name    string
		payment *model.Payment
		wantID  string
		wantErr bool
	}{
		{name: "nil payment", payment: nil, wantErr: true},
		{name: "no instruments", payment: &model.Payment{}, wantErr: true},
		{
			name: "selected by default",
			payment: &model.Payment{Instruments: []model.PaymentInstrument{
				{ID: "pi_1", Credential: token},
			}},
			wantID: "pi_1",
		},
		{
			name: "skips unselected",
			payment: &model.Payment{Instruments: []model.PaymentInstrument{
				{ID: "pi_1", Selected: &no, Credential: token},
				{ID: "pi_2", Credential: token},
			}},
			wantID: "pi_2",
		},
		{
			name: "nothing selected",
			payment: &model.Payment{Instruments: []model.PaymentInstrument{
				{ID: "pi_1", Selected: &no, Credential: token},
			}},
			wantErr: true,
		},
		{
			name: "missing token",
			payment: &model.Payment{Instruments: []model.PaymentInstrument{
				{ID: "pi_1", Credential: &model.PaymentCredential{Type: "TOKEN", Token: " "}},
			}},
			wantErr: true,
		},
		{
			name: "missing credential",
			payment: &model.Payment{Instruments: []model.PaymentInstrument{
				{ID: "pi_1"},
			}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in, err := SelectedInstrument(tt.payment)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got instrument %+v", in)
				}
				return
			}
			if err != nil {
				t.Fatalf("SelectedInstrument error: %v", err)
			}
			if in.ID != tt.wantID {
				t.Fatalf("instrument = %q, want %q", in.ID, tt.wantID)
			}
		})
	}
}
