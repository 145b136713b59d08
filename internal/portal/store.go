package portal

import (
	"context"

	"github.com/D-J-Software-Engineers/Notes-Management-System/internal/model"
)

// Storage ports. Implementations return *NotFoundError when a lookup target
// is missing and *ConflictError on unique-constraint violations; the core
// never inspects driver errors.

// AccountFilter narrows account listings. Nil pointer fields mean "any".
type AccountFilter struct {
	Role      model.Role
	Level     model.Level
	Class     model.Class
	Confirmed *bool
	Active    *bool
	Search    string // name or email substring
	Limit     int
	Offset    int
}

type AccountStore interface {
	CreateAccount(ctx context.Context, account model.Account) error
	GetAccountByID(ctx context.Context, id string) (model.Account, error)
	GetAccountByEmail(ctx context.Context, email string) (model.Account, error)
	UpdateAccount(ctx context.Context, account model.Account) error
	DeleteAccount(ctx context.Context, id string) error
	ListAccounts(ctx context.Context, filter AccountFilter) ([]model.Account, error)
	AccountStats(ctx context.Context) (model.AccountStats, error)
}

// ContentFilter is the coarse store-side narrowing applied before the
// visibility matcher runs; it never replaces the matcher.
type ContentFilter struct {
	Kind    model.ContentKind
	Level   model.Level
	Class   model.Class
	Subject string
	Limit   int
	Offset  int
}

type ContentStore interface {
	CreateContent(ctx context.Context, item model.ContentItem) error
	GetContentByID(ctx context.Context, id string) (model.ContentItem, error)
	UpdateContent(ctx context.Context, item model.ContentItem) error
	DeleteContent(ctx context.Context, id string) error
	ListContent(ctx context.Context, filter ContentFilter) ([]model.ContentItem, error)
	IncrementContentViews(ctx context.Context, id string) error
	IncrementContentDownloads(ctx context.Context, id string) error
}

type StreamStore interface {
	CreateClassStream(ctx context.Context, stream model.ClassStream) error
	GetClassStreamByID(ctx context.Context, id string) (model.ClassStream, error)
	UpdateClassStream(ctx context.Context, stream model.ClassStream) error
	DeleteClassStream(ctx context.Context, id string) error
	ListClassStreams(ctx context.Context, class model.Class) ([]model.ClassStream, error)
}

type SubjectStore interface {
	CreateSubject(ctx context.Context, subject model.Subject) error
	GetSubjectByID(ctx context.Context, id string) (model.Subject, error)
	UpdateSubject(ctx context.Context, subject model.Subject) error
	DeleteSubject(ctx context.Context, id string) error
	ListSubjects(ctx context.Context, level model.Level, class model.Class, stream model.Stream) ([]model.Subject, error)
}
