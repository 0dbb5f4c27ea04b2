package wizard

import "errors"

var (
	// ErrWrongStep возвращается, когда действие недоступно на текущем шаге
	ErrWrongStep = errors.New("wizard: action is not available at this step")

	// ErrDateNotSelectable возвращается для прошедших, закрытых и полностью занятых дней
	ErrDateNotSelectable = errors.New("wizard: date is not selectable")

	// ErrSlotNotFree возвращается, когда время не входит в список свободных слотов дня
	ErrSlotNotFree = errors.New("wizard: time slot is not free")

	// ErrSubmitInFlight возвращается при повторной отправке до получения ответа
	ErrSubmitInFlight = errors.New("wizard: submission already in flight")

	// ErrDiscarded возвращается, когда контекст отменен до получения ответа.
	// Запрос доводится до конца, но его результат отбрасывается.
	ErrDiscarded = errors.New("wizard: result discarded")
)
