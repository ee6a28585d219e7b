package checkout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmeshcher/ucp-checkout/internal/model"
)

func codes(messages []model.Message) []string {
	res := make([]string, 0, len(messages))
	for _, m := range messages {
		res = append(res, m.Code)
	}
	return res
}

func TestBuildMessages(t *testing.T) {
	addr := &model.PostalAddress{StreetAddress: "1 Main St"}

	tests := []struct {
		name        string
		items       []model.LineItem
		fulfillment *model.Fulfillment
		want        []string
	}{
		{
			name: "empty cart without fulfillment",
			want: []string{CodeEmptyCart, CodeSelectFulfillment},
		},
		{
			name:        "no option selected",
			items:       lattes(1),
			fulfillment: &model.Fulfillment{},
			want:        []string{CodeFulfillmentRequired},
		},
		{
			name:        "delivery without address",
			items:       lattes(1),
			fulfillment: &model.Fulfillment{SelectedOptionID: "express"},
			want:        []string{CodeAddressRequired},
		},
		{
			name:        "delivery with address",
			items:       lattes(1),
			fulfillment: &model.Fulfillment{SelectedOptionID: "standard", Address: addr},
			want:        []string{},
		},
		{
			name:        "pickup needs no address",
			items:       lattes(1),
			fulfillment: &model.Fulfillment{SelectedOptionID: "pickup"},
			want:        []string{},
		},
		{
			name:        "empty cart with pickup",
			fulfillment: &model.Fulfillment{SelectedOptionID: "pickup"},
			want:        []string{CodeEmptyCart},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, codes(BuildMessages(tt.items, tt.fulfillment)))
		})
	}
}

func TestBuildMessages_Severity(t *testing.T) {
	msgs := BuildMessages(lattes(1), &model.Fulfillment{})
	require.Len(t, msgs, 1)
	assert.Equal(t, model.MessageError, msgs[0].Type)
	assert.Equal(t, model.SeverityRecoverable, msgs[0].Severity)

	msgs = BuildMessages(nil, nil)
	require.Len(t, msgs, 2)
	assert.Empty(t, msgs[0].Severity)
	assert.Empty(t, msgs[1].Severity)
}

func TestDetermineStatus(t *testing.T) {
	addr := &model.PostalAddress{StreetAddress: "1 Main St"}
	recoverable := model.Message{Type: model.MessageError, Code: "x", Severity: model.SeverityRecoverable}
	buyerInput := model.Message{Type: model.MessageError, Code: "y", Severity: model.SeverityRequiresBuyerInput}
	buyerReview := model.Message{Type: model.MessageError, Code: "z", Severity: model.SeverityRequiresBuyerReview}
	pickup := &model.Fulfillment{SelectedOptionID: "pickup"}

	tests := []struct {
		name        string
		items       []model.LineItem
		fulfillment *model.Fulfillment
		messages    []model.Message
		want        model.CheckoutStatus
	}{
		{
			name:        "ready with pickup",
			items:       lattes(1),
			fulfillment: pickup,
			want:        model.StatusReadyForComplete,
		},
		{
			name:        "ready with delivery and address",
			items:       lattes(1),
			fulfillment: &model.Fulfillment{SelectedOptionID: "standard", Address: addr},
			want:        model.StatusReadyForComplete,
		},
		{
			name:        "escalation wins over recoverable",
			items:       lattes(1),
			fulfillment: pickup,
			messages:    []model.Message{recoverable, buyerInput},
			want:        model.StatusRequiresEscalation,
		},
		{
			name:        "buyer review escalates",
			items:       lattes(1),
			fulfillment: pickup,
			messages:    []model.Message{buyerReview},
			want:        model.StatusRequiresEscalation,
		},
		{
			name:        "recoverable error is incomplete",
			items:       lattes(1),
			fulfillment: pickup,
			messages:    []model.Message{recoverable},
			want:        model.StatusIncomplete,
		},
		{
			name:        "warnings do not escalate",
			items:       lattes(1),
			fulfillment: pickup,
			messages:    []model.Message{{Type: model.MessageWarning, Severity: model.SeverityRequiresBuyerInput}},
			want:        model.StatusReadyForComplete,
		},
		{
			name:        "empty cart without messages",
			fulfillment: pickup,
			want:        model.StatusIncomplete,
		},
		{
			name:  "no fulfillment without messages",
			items: lattes(1),
			want:  model.StatusIncomplete,
		},
		{
			name:        "no selection without messages",
			items:       lattes(1),
			fulfillment: &model.Fulfillment{},
			want:        model.StatusIncomplete,
		},
		{
			name:        "delivery without address and no messages",
			items:       lattes(1),
			fulfillment: &model.Fulfillment{SelectedOptionID: "express"},
			want:        model.StatusIncomplete,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetermineStatus(tt.items, tt.fulfillment, tt.messages))
		})
	}
}

func TestDetermineStatus_NeverInProgress(t *testing.T) {
	cases := []*model.Fulfillment{nil, {}, {SelectedOptionID: "pickup"}, {SelectedOptionID: "express"}}
	for _, f := range cases {
		for _, items := range [][]model.LineItem{nil, lattes(1)} {
			status := DetermineStatus(items, f, BuildMessages(items, f))
			assert.NotEqual(t, model.StatusCompleteInProgress, status)
			assert.False(t, status.IsTerminal())
		}
	}
}
