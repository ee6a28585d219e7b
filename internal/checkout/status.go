package checkout

import "github.com/mmeshcher/ucp-checkout/internal/model"

// Коды диагностических сообщений.
const (
	CodeEmptyCart           = "empty_cart"
	CodeSelectFulfillment   = "select_fulfillment"
	CodeFulfillmentRequired = "fulfillment_required"
	CodeAddressRequired     = "address_required"
)

// IsDeliveryOption сообщает, требует ли способ получения адреса доставки.
func IsDeliveryOption(optionID string) bool {
	return optionID == "standard" || optionID == "express"
}

// BuildMessages формирует диагностические сообщения по текущему состоянию сессии.
// Порядок сообщений фиксирован.
func BuildMessages(items []model.LineItem, f *model.Fulfillment) []model.Message {
	messages := make([]model.Message, 0, 2)

	if len(items) == 0 {
		messages = append(messages, model.Message{
			Type:    model.MessageWarning,
			Code:    CodeEmptyCart,
			Content: "Your cart is empty. Add some items to continue.",
		})
	}

	switch {
	case f == nil:
		messages = append(messages, model.Message{
			Type:    model.MessageInfo,
			Code:    CodeSelectFulfillment,
			Content: "Please select a fulfillment option.",
		})
	case f.SelectedOptionID == "":
		messages = append(messages, model.Message{
			Type:     model.MessageError,
			Code:     CodeFulfillmentRequired,
			Content:  "Please select a fulfillment option to continue.",
			Severity: model.SeverityRecoverable,
		})
	case IsDeliveryOption(f.SelectedOptionID) && f.Address == nil:
		messages = append(messages, model.Message{
			Type:     model.MessageError,
			Code:     CodeAddressRequired,
			Content:  "Please provide a delivery address.",
			Severity: model.SeverityRecoverable,
		})
	}

	return messages
}

// DetermineStatus вычисляет статус нетерминальной сессии.
// Проверки состояния после анализа сообщений дублируют генератор сообщений намеренно:
// список сообщений может прийти не из BuildMessages.
func DetermineStatus(items []model.LineItem, f *model.Fulfillment, messages []model.Message) model.CheckoutStatus {
	if hasErrorWithSeverity(messages, model.SeverityRequiresBuyerInput, model.SeverityRequiresBuyerReview) {
		return model.StatusRequiresEscalation
	}

	if hasErrorWithSeverity(messages, model.SeverityRecoverable) {
		return model.StatusIncomplete
	}

	if len(items) == 0 {
		return model.StatusIncomplete
	}

	if f == nil {
		return model.StatusIncomplete
	}

	if f.SelectedOptionID == "" {
		return model.StatusIncomplete
	}

	if IsDeliveryOption(f.SelectedOptionID) && f.Address == nil {
		return model.StatusIncomplete
	}

	return model.StatusReadyForComplete
}

func hasErrorWithSeverity(messages []model.Message, severities ...model.MessageSeverity) bool {
	for _, m := range messages {
		if m.Type != model.MessageError {
			continue
		}
		for _, s := range severities {
			if m.Severity == s {
				return true
			}
		}
	}
	return false
}
