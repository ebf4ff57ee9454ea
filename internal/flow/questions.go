package flow

import "offline-traffic-bot/internal/entity"

// Question texts, kept colloquial the way the operators are used to.
const (
	promptTypeClient     = "Кто это был? Выбери тип клиента (Type_of_client)"
	promptBehavior       = "Че он делал? (Behavior)"
	promptPurchaseStatus = "Купил или не купил? (Purchase_status)"
	promptTicketAmount   = "На сколько наторговал? Если не знаешь — отправляй 0, если знаешь — сумму"
	promptCostPrice      = "А себестоимость? Если не знаешь — отправляй 0, если знаешь — сумму"
	promptProductInfo    = "Что именно продали и в каком количестве? Например: 'флизелиновые обои, 3 рулона'"
	promptReason         = "А че не купили? Почему? Выбирай пункт из списка или напиши коротко"
	promptContactLeft    = "Хотя бы контакт оставил? (да/нет)"
	promptSource         = "Откуда он узнал про наш магазин? (Source)"
	promptShortNote      = "Расскажи вкратце что-то еще, а если нечего — /skip"
	promptFeedback       = "Опиши, что пошло не так — я передам админу:"
)

const (
	hintTicketAmount = "❌ Не могу распарсить сумму чека.\n\n" +
		"✅ Примеры правильного ввода:\n• 15000\n• 15 000\n• 15000.50\n• 15,5\n\n" +
		"❌ НЕ используй:\n• спецсимволы: +, *, /, №, ( )\n• текст: 'пятнадцать тысяч'\n• несколько чисел: '15 и 20'\n\n" +
		"Отправь просто число:"
	hintTicketNegative = "❌ Сумма не может быть отрицательной. Отправь положительное число или 0:"

	hintCostPrice = "❌ Не могу распарсить себестоимость.\n\n" +
		"✅ Примеры правильного ввода:\n• 8000\n• 8 000\n• 8000.50\n• 0 (если не знаешь)\n\n" +
		"Отправь просто число:"
	hintCostNegative = "❌ Себестоимость не может быть отрицательной. Отправь число >= 0:"
)

// Question returns the prompt and the fixed choice menu for a state. The
// menu is advisory: the operator can always type free text instead. Terminal
// state returns an empty prompt.
func Question(s State) (string, []string) {
	switch s {
	case StateTypeClient:
		return promptTypeClient, entity.ClientTypes
	case StateBehavior:
		return promptBehavior, entity.Behaviors
	case StatePurchaseStatus:
		return promptPurchaseStatus, entity.Statuses
	case StateTicketAmount:
		return promptTicketAmount, nil
	case StateCostPrice:
		return promptCostPrice, nil
	case StateProductInfo:
		return promptProductInfo, nil
	case StateReasonNotBuying:
		return promptReason, entity.Reasons
	case StateContactLeft:
		return promptContactLeft, entity.YesNo
	case StateSource:
		return promptSource, entity.Sources
	case StateShortNote:
		return promptShortNote, nil
	case StateFeedback:
		return promptFeedback, nil
	}
	return "", nil
}
