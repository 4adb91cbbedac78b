package validation

import "sort"

// FieldValidator проверяет одно поле на основе всей записи формы,
// так валидатор видит и соседние поля
type FieldValidator[T any] func(data T) Result

// Form хранит типизированную запись формы вместе с валидаторами полей
// и отслеживает, какие поля оператор уже "трогал" (покидал фокус).
// Ошибки показываются только для тронутых полей, но ValidateAll
// принудительно трогает все и возвращает честный итог.
type Form[T any] struct {
	data       T
	validators map[string]FieldValidator[T]
	touched    map[string]bool
}

// NewForm создает форму с начальными данными и набором валидаторов
func NewForm[T any](data T, validators map[string]FieldValidator[T]) *Form[T] {
	return &Form[T]{
		data:       data,
		validators: validators,
		touched:    make(map[string]bool),
	}
}

// Data возвращает текущую запись формы
func (f *Form[T]) Data() T {
	return f.data
}

// Update заменяет запись формы, статус touched сохраняется
func (f *Form[T]) Update(data T) {
	f.data = data
}

// Touch помечает поле как тронутое
func (f *Form[T]) Touch(field string) {
	f.touched[field] = true
}

// Touched сообщает, трогал ли оператор поле
func (f *Form[T]) Touched(field string) bool {
	return f.touched[field]
}

// FieldError возвращает ошибку поля для показа оператору.
// Для нетронутых полей всегда пусто, даже если значение невалидно.
func (f *Form[T]) FieldError(field string) string {
	if !f.touched[field] {
		return ""
	}
	v, ok := f.validators[field]
	if !ok {
		return ""
	}
	if res := v(f.data); !res.OK {
		return res.Message
	}
	return ""
}

// IsValid пересчитывает все валидаторы независимо от touched
func (f *Form[T]) IsValid() bool {
	for _, v := range f.validators {
		if res := v(f.data); !res.OK {
			return false
		}
	}
	return true
}

// ValidateAll трогает все поля и возвращает ошибки по именам полей.
// Вызывается при отправке формы; пустая карта означает успех.
func (f *Form[T]) ValidateAll() map[string]string {
	errs := make(map[string]string)
	for field, v := range f.validators {
		f.touched[field] = true
		if res := v(f.data); !res.OK {
			errs[field] = res.Message
		}
	}
	return errs
}

// Fields возвращает имена валидируемых полей в стабильном порядке
func (f *Form[T]) Fields() []string {
	fields := make([]string, 0, len(f.validators))
	for field := range f.validators {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return fields
}
