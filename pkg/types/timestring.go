package types

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// timeLayout формат времени суток, используемый во всех API сервиса
const timeLayout = "15:04"

// TimeString время суток в формате "HH:MM"
// Хранится в БД и передаётся по HTTP как обычная строка
type TimeString string

// NewTimeString создает TimeString из time.Time (отбрасывает дату и секунды)
func NewTimeString(t time.Time) TimeString {
	return TimeString(t.Format(timeLayout))
}

// NewTimeStringFromString парсит строку "HH:MM" и валидирует её
func NewTimeStringFromString(s string) (TimeString, error) {
	ts := TimeString(s)
	if err := ts.Validate(); err != nil {
		return "", err
	}
	return ts, nil
}

// Validate проверяет, что значение соответствует формату "HH:MM"
func (t TimeString) Validate() error {
	if _, err := time.Parse(timeLayout, string(t)); err != nil {
		return fmt.Errorf("invalid time string format: %q (expected HH:MM)", string(t))
	}
	return nil
}

// IsZero возвращает true для пустого значения
func (t TimeString) IsZero() bool {
	return t == ""
}

// String возвращает строковое представление "HH:MM"
func (t TimeString) String() string {
	return string(t)
}

// Clock возвращает часы и минуты
func (t TimeString) Clock() (hour, minute int, err error) {
	parsed, err := time.Parse(timeLayout, string(t))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid time string format: %q", string(t))
	}
	return parsed.Hour(), parsed.Minute(), nil
}

// minutes возвращает количество минут с начала суток
func (t TimeString) minutes() (int, error) {
	h, m, err := t.Clock()
	if err != nil {
		return 0, err
	}
	return h*60 + m, nil
}

// IsBefore возвращает true, если t строго раньше other
// Некорректные значения считаются равными (сравнение не падает)
func (t TimeString) IsBefore(other TimeString) bool {
	a, errA := t.minutes()
	b, errB := other.minutes()
	if errA != nil || errB != nil {
		return false
	}
	return a < b
}

// IsAfter возвращает true, если t строго позже other
func (t TimeString) IsAfter(other TimeString) bool {
	a, errA := t.minutes()
	b, errB := other.minutes()
	if errA != nil || errB != nil {
		return false
	}
	return a > b
}

// AddMinutes возвращает время через minutes минут (по модулю суток)
func (t TimeString) AddMinutes(minutes int) (TimeString, error) {
	total, err := t.minutes()
	if err != nil {
		return "", err
	}
	total = (total + minutes) % (24 * 60)
	if total < 0 {
		total += 24 * 60
	}
	return TimeString(fmt.Sprintf("%02d:%02d", total/60, total%60)), nil
}

// OnDate совмещает время суток с календарной датой в её локации
func (t TimeString) OnDate(date time.Time) (time.Time, error) {
	h, m, err := t.Clock()
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(date.Year(), date.Month(), date.Day(), h, m, 0, 0, date.Location()), nil
}

// Value реализует driver.Valuer для записи в БД
func (t TimeString) Value() (driver.Value, error) {
	return string(t), nil
}

// Scan реализует sql.Scanner для чтения из БД
func (t *TimeString) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*t = ""
		return nil
	case string:
		*t = TimeString(v)
		return nil
	case []byte:
		*t = TimeString(v)
		return nil
	case time.Time:
		*t = NewTimeString(v)
		return nil
	default:
		return fmt.Errorf("cannot scan %T into TimeString", src)
	}
}
