package wizard

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ArtistBooking/internal/calendar"
	"github.com/m04kA/SMC-ArtistBooking/internal/domain"
	"github.com/m04kA/SMC-ArtistBooking/pkg/types"
)

// Step шаг мастера бронирования
type Step int

const (
	StepSelectDate Step = iota
	StepSelectTime
	StepDetails
	StepConfirm
	StepSubmitted
)

func (s Step) String() string {
	switch s {
	case StepSelectDate:
		return "select-date"
	case StepSelectTime:
		return "select-time"
	case StepDetails:
		return "details"
	case StepConfirm:
		return "confirm"
	case StepSubmitted:
		return "submitted"
	default:
		return "unknown"
	}
}

const (
	bannerSlotTaken   = "This time slot was just booked. Please choose another time."
	bannerSubmitError = "The request could not be sent. Please try again."
)

// State снимок мастера для отображения
type State struct {
	Step        Step
	Date        time.Time
	FreeSlots   []types.TimeString
	Time        types.TimeString
	Form        Form
	FieldErrors map[string]string
	Banner      string
	InFlight    bool
	Booking     *domain.Booking
}

// Wizard мастер запроса бронирования: дата -> время -> данные -> подтверждение.
// Безопасен для конкурентного использования.
type Wizard struct {
	mu      sync.Mutex
	creator BookingCreator
	checker SlotChecker

	artistID    string
	step        Step
	date        time.Time
	freeSlots   []types.TimeString
	time        types.TimeString
	form        Form
	fieldErrors map[string]string
	banner      string
	inFlight    bool
	booking     *domain.Booking

	// idempotencyKey переживает повторную ручную отправку того же черновика
	idempotencyKey string
}

// New создает мастер для артиста. checker может быть nil, тогда проверка слота перед отправкой пропускается.
func New(artistID string, creator BookingCreator, checker SlotChecker) *Wizard {
	return &Wizard{
		artistID:    artistID,
		creator:     creator,
		checker:     checker,
		fieldErrors: map[string]string{},
	}
}

// State возвращает копию текущего состояния
func (w *Wizard) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()

	return State{
		Step:        w.step,
		Date:        w.date,
		FreeSlots:   append([]types.TimeString(nil), w.freeSlots...),
		Time:        w.time,
		Form:        w.form,
		FieldErrors: maps.Clone(w.fieldErrors),
		Banner:      w.banner,
		InFlight:    w.inFlight,
		Booking:     w.booking,
	}
}

// SelectDate выбирает день из календаря. Смена дня сбрасывает выбранное время.
func (w *Wizard) SelectDate(cell calendar.Cell) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.step != StepSelectDate {
		return ErrWrongStep
	}
	if !cell.Selectable() {
		return ErrDateNotSelectable
	}

	date := types.DateOnly(cell.Date)
	if !date.Equal(w.date) {
		w.time = ""
		w.idempotencyKey = ""
	}
	w.date = date
	w.freeSlots = cell.FreeSlots()
	w.banner = ""
	w.step = StepSelectTime
	return nil
}

// SelectTime выбирает время из свободных слотов выбранного дня
func (w *Wizard) SelectTime(at types.TimeString) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.step != StepSelectTime {
		return ErrWrongStep
	}
	if !domain.ContainsSlot(w.freeSlots, at) {
		return ErrSlotNotFree
	}

	if at != w.time {
		w.idempotencyKey = ""
	}
	w.time = at
	w.banner = ""
	w.step = StepDetails
	return nil
}

// SetDetails сохраняет форму. При ошибках мастер остается на Details с ошибками по полям.
func (w *Wizard) SetDetails(form Form) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.step != StepDetails {
		return ErrWrongStep
	}

	form = form.trimmed()
	if form != w.form {
		w.idempotencyKey = ""
	}
	w.form = form
	w.fieldErrors = form.validate()

	if len(w.fieldErrors) > 0 {
		verr := domain.NewValidationError()
		for field, msg := range w.fieldErrors {
			verr.Add(field, msg)
		}
		return verr
	}

	w.step = StepConfirm
	return nil
}

// Back возвращает на предыдущий шаг. Состояние сохраняется до его изменения.
func (w *Wizard) Back() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.inFlight {
		return ErrSubmitInFlight
	}

	switch w.step {
	case StepSelectTime, StepDetails, StepConfirm:
		w.step--
		w.banner = ""
		return nil
	default:
		return ErrWrongStep
	}
}

// Submit проверяет слот и отправляет черновик. Результат:
//   - успех: шаг Submitted, мастер больше не принимает действий до Reset;
//   - конфликт слота (от проверки или от создания): шаг SelectTime, время сброшено, баннер с причиной;
//   - ошибка валидации: шаг Details с ошибками по полям;
//   - отмена ctx до ответа: ErrDiscarded, состояние не меняется.
//
// Повторных попыток нет.
func (w *Wizard) Submit(ctx context.Context) (*domain.Booking, error) {
	w.mu.Lock()
	if w.inFlight {
		w.mu.Unlock()
		return nil, ErrSubmitInFlight
	}
	if w.step != StepConfirm {
		w.mu.Unlock()
		return nil, ErrWrongStep
	}
	if w.idempotencyKey == "" {
		w.idempotencyKey = uuid.NewString()
	}
	key := w.idempotencyKey
	draft := &domain.BookingDraft{
		ArtistID:       w.artistID,
		ClientName:     w.form.ClientName,
		ClientEmail:    w.form.ClientEmail,
		Date:           w.date,
		Time:           w.time,
		Service:        w.form.Service,
		Message:        w.form.Message,
		IdempotencyKey: &key,
	}
	w.inFlight = true
	w.banner = ""
	w.mu.Unlock()

	// Запросы не прерываются уходом пользователя, отбрасывается только результат
	reqCtx := context.WithoutCancel(ctx)

	var (
		booking *domain.Booking
		err     error
	)
	if w.slotTaken(reqCtx, draft) {
		err = fmt.Errorf("%w: %s %s", domain.ErrSlotConflict, types.DateKey(draft.Date), draft.Time)
	} else {
		booking, err = w.creator.CreateBooking(reqCtx, draft)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.inFlight = false

	if ctx.Err() != nil {
		return nil, ErrDiscarded
	}

	var verr *domain.ValidationError
	switch {
	case err == nil:
		w.booking = booking
		w.step = StepSubmitted
		return booking, nil

	case errors.Is(err, domain.ErrSlotConflict):
		w.freeSlots = without(w.freeSlots, w.time)
		w.time = ""
		w.idempotencyKey = ""
		w.banner = bannerSlotTaken
		w.step = StepSelectTime
		return nil, err

	case errors.As(err, &verr):
		w.fieldErrors = maps.Clone(verr.Fields)
		w.idempotencyKey = ""
		w.step = StepDetails
		return nil, err

	default:
		w.banner = bannerSubmitError
		return nil, err
	}
}

// slotTaken сообщает, что проверка уже видит слот занятым.
// Ошибка проверки не блокирует отправку: эксклюзивность слота гарантирует создание.
func (w *Wizard) slotTaken(ctx context.Context, draft *domain.BookingDraft) bool {
	if w.checker == nil {
		return false
	}
	free, err := w.checker.CheckSlot(ctx, draft.ArtistID, draft.Date, draft.Time)
	return err == nil && !free
}

// Reset возвращает мастер в начальное состояние
func (w *Wizard) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.inFlight {
		return
	}
	w.step = StepSelectDate
	w.date = time.Time{}
	w.freeSlots = nil
	w.time = ""
	w.form = Form{}
	w.fieldErrors = map[string]string{}
	w.banner = ""
	w.booking = nil
	w.idempotencyKey = ""
}

func without(slots []types.TimeString, t types.TimeString) []types.TimeString {
	out := make([]types.TimeString, 0, len(slots))
	for _, s := range slots {
		if s != t {
			out = append(out, s)
		}
	}
	return out
}
