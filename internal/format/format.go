// Package format содержит чистые функции отображения сумм и времени.
//
// Правило для времени жесткое: backend всегда присылает UTC, конвертация
// выполняется ровно один раз и только в фиксированный часовой пояс
// магазина, а не в пояс зрителя. Исторически это был постоянный источник
// ошибок, поэтому все форматирование дат проходит через Formatter.
package format

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	timeLayout = "2006-01-02 15:04"
	dateLayout = "2006-01-02"
)

var printer = message.NewPrinter(language.English)

// Currency форматирует сумму как "$1,000" или "$1,000.50".
// Хвост ".00" у целых сумм не показывается.
func Currency(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
	}

	r := d.Abs().Round(2)
	whole := r.Truncate(0)
	dollars := printer.Sprintf("%d", whole.IntPart())

	if r.Equal(whole) {
		return fmt.Sprintf("%s$%s", sign, dollars)
	}

	cents := r.Sub(whole).Mul(decimal.NewFromInt(100)).IntPart()
	return fmt.Sprintf("%s$%s.%02d", sign, dollars, cents)
}

// Formatter переводит серверные UTC-метки в часовой пояс магазина
type Formatter struct {
	loc *time.Location
}

// NewFormatter создает Formatter для указанного часового пояса
func NewFormatter(timezone string) (*Formatter, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("format: failed to load business timezone %q: %w", timezone, err)
	}
	return &Formatter{loc: loc}, nil
}

// Location возвращает часовой пояс магазина
func (f *Formatter) Location() *time.Location {
	return f.loc
}

// BusinessTime форматирует UTC-метку как дату и время в поясе магазина
func (f *Formatter) BusinessTime(t time.Time) string {
	return t.UTC().In(f.loc).Format(timeLayout)
}

// BusinessDate форматирует UTC-метку как дату в поясе магазина
func (f *Formatter) BusinessDate(t time.Time) string {
	return t.UTC().In(f.loc).Format(dateLayout)
}
