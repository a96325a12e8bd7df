package task

import (
	"bytes"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	DefaultLimit = 50
	MaxLimit     = 200
)

type SortField string

const (
	SortCreatedAt SortField = "created_at"
	SortUpdatedAt SortField = "updated_at"
	SortDueAt     SortField = "due_at"
	SortPriority  SortField = "priority"
	SortStatus    SortField = "status"
	SortTitle     SortField = "title"
)

var ErrUnknownSortField = errors.New("неизвестное поле сортировки")

type Sort struct {
	Field SortField
	Desc  bool
}

// новые задачи первыми
var DefaultSort = Sort{Field: SortCreatedAt, Desc: true}

// ParseSort разбирает "field" или "-field". Пустая строка даёт сортировку по умолчанию
func ParseSort(raw string) (Sort, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultSort, nil
	}
	sort := Sort{}
	if strings.HasPrefix(raw, "-") {
		sort.Desc = true
		raw = raw[1:]
	}
	switch field := SortField(raw); field {
	case SortCreatedAt, SortUpdatedAt, SortDueAt, SortPriority, SortStatus, SortTitle:
		sort.Field = field
		return sort, nil
	}
	return Sort{}, ErrUnknownSortField
}

func (s Sort) String() string {
	if s.Desc {
		return "-" + string(s.Field)
	}
	return string(s.Field)
}

// Compare сравнивает задачи по ключу сортировки, NULL всегда в конце.
// При равенстве ключей порядок определяет id
func (s Sort) Compare(a, b *Task) int {
	if c := s.compareKey(a, b); c != 0 {
		return c
	}
	return bytes.Compare(a.ID[:], b.ID[:])
}

func (s Sort) compareKey(a, b *Task) int {
	switch s.Field {
	case SortCreatedAt:
		return s.direct(a.CreatedAt.Compare(b.CreatedAt))
	case SortUpdatedAt:
		return s.direct(a.UpdatedAt.Compare(b.UpdatedAt))
	case SortStatus:
		return s.direct(strings.Compare(string(a.Status), string(b.Status)))
	case SortTitle:
		return s.direct(strings.Compare(a.Title, b.Title))
	case SortDueAt:
		if c, ok := compareNil(a.DueAt == nil, b.DueAt == nil); ok {
			return c
		}
		return s.direct(a.DueAt.Compare(*b.DueAt))
	case SortPriority:
		if c, ok := compareNil(a.Priority == nil, b.Priority == nil); ok {
			return c
		}
		return s.direct(*a.Priority - *b.Priority)
	}
	return 0
}

func (s Sort) direct(c int) int {
	if s.Desc {
		return -c
	}
	return c
}

func compareNil(aNil, bNil bool) (int, bool) {
	switch {
	case aNil && bNil:
		return 0, true
	case aNil:
		return 1, true
	case bNil:
		return -1, true
	}
	return 0, false
}

type Filter struct {
	OwnerID   *uuid.UUID
	Status    *Status
	DueBefore *time.Time
	DueAfter  *time.Time
	Priority  *int
}

// Match повторяет условия WHERE из postgres-хранилища
func (f Filter) Match(t *Task) bool {
	if f.OwnerID != nil && t.UserID != *f.OwnerID {
		return false
	}
	if f.Status != nil && t.Status != *f.Status {
		return false
	}
	if f.DueBefore != nil || f.DueAfter != nil {
		if t.DueAt == nil {
			return false
		}
		if f.DueBefore != nil && t.DueAt.After(*f.DueBefore) {
			return false
		}
		if f.DueAfter != nil && t.DueAt.Before(*f.DueAfter) {
			return false
		}
	}
	if f.Priority != nil && (t.Priority == nil || *t.Priority != *f.Priority) {
		return false
	}
	return true
}

type Query struct {
	Filter
	Sort   Sort
	Limit  int
	Offset int
}
