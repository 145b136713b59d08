package portal

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/D-J-Software-Engineers/Notes-Management-System/internal/model"
)

// AcademicCatalog manages the admin-maintained reference data: taught
// subjects and O-Level class streams.
type AcademicCatalog struct {
	subjects SubjectStore
	streams  StreamStore
}

func NewAcademicCatalog(subjects SubjectStore, streams StreamStore) *AcademicCatalog {
	return &AcademicCatalog{subjects: subjects, streams: streams}
}

type SubjectInput struct {
	Name       string
	Code       string
	Level      model.Level
	Class      model.Class
	Stream     model.Stream
	Compulsory bool
}

func (a *AcademicCatalog) validateSubject(input SubjectInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return &ValidationError{Message: "subject name is required"}
	}
	if !input.Level.Valid() {
		return &ValidationError{Message: "level must be o-level or a-level"}
	}
	if input.Class != "" && !input.Class.BelongsTo(input.Level) {
		return &ValidationError{Message: fmt.Sprintf("class %q is not valid for %s", input.Class, input.Level)}
	}
	if input.Stream != "" {
		if input.Level != model.LevelALevel {
			return &ValidationError{Message: "academic stream is only for a-level subjects"}
		}
		if !input.Stream.Valid() {
			return &ValidationError{Message: "academic stream must be arts or science"}
		}
	}
	return nil
}

func (a *AcademicCatalog) CreateSubject(ctx context.Context, input SubjectInput) (model.Subject, error) {
	if err := a.validateSubject(input); err != nil {
		return model.Subject{}, err
	}
	subject := model.Subject{
		ID:         uuid.NewString(),
		Name:       strings.TrimSpace(input.Name),
		Code:       strings.ToUpper(strings.TrimSpace(input.Code)),
		Level:      input.Level,
		Class:      input.Class,
		Stream:     input.Stream,
		Compulsory: input.Compulsory,
		CreatedAt:  time.Now().UTC(),
	}
	if err := a.subjects.CreateSubject(ctx, subject); err != nil {
		return model.Subject{}, err
	}
	return subject, nil
}

func (a *AcademicCatalog) UpdateSubject(ctx context.Context, id string, input SubjectInput) (model.Subject, error) {
	subject, err := a.subjects.GetSubjectByID(ctx, id)
	if err != nil {
		return model.Subject{}, err
	}
	if err := a.validateSubject(input); err != nil {
		return model.Subject{}, err
	}
	subject.Name = strings.TrimSpace(input.Name)
	subject.Code = strings.ToUpper(strings.TrimSpace(input.Code))
	subject.Level = input.Level
	subject.Class = input.Class
	subject.Stream = input.Stream
	subject.Compulsory = input.Compulsory
	if err := a.subjects.UpdateSubject(ctx, subject); err != nil {
		return model.Subject{}, err
	}
	return subject, nil
}

func (a *AcademicCatalog) GetSubject(ctx context.Context, id string) (model.Subject, error) {
	return a.subjects.GetSubjectByID(ctx, id)
}

func (a *AcademicCatalog) DeleteSubject(ctx context.Context, id string) error {
	return a.subjects.DeleteSubject(ctx, id)
}

func (a *AcademicCatalog) ListSubjects(ctx context.Context, level model.Level, class model.Class, stream model.Stream) ([]model.Subject, error) {
	return a.subjects.ListSubjects(ctx, level, class, stream)
}

type ClassStreamInput struct {
	Name        string
	Class       model.Class
	Description string
}

func (a *AcademicCatalog) validateClassStream(input ClassStreamInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return &ValidationError{Message: "stream name is required"}
	}
	if !input.Class.BelongsTo(model.LevelOLevel) {
		return &ValidationError{Message: "class streams only exist for o-level classes"}
	}
	return nil
}

func (a *AcademicCatalog) CreateClassStream(ctx context.Context, input ClassStreamInput) (model.ClassStream, error) {
	if err := a.validateClassStream(input); err != nil {
		return model.ClassStream{}, err
	}
	stream := model.ClassStream{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(input.Name),
		Class:       input.Class,
		Description: strings.TrimSpace(input.Description),
		Active:      true,
		CreatedAt:   time.Now().UTC(),
	}
	if err := a.streams.CreateClassStream(ctx, stream); err != nil {
		return model.ClassStream{}, err
	}
	return stream, nil
}

func (a *AcademicCatalog) UpdateClassStream(ctx context.Context, id string, input ClassStreamInput) (model.ClassStream, error) {
	stream, err := a.streams.GetClassStreamByID(ctx, id)
	if err != nil {
		return model.ClassStream{}, err
	}
	if strings.TrimSpace(input.Name) == "" {
		return model.ClassStream{}, &ValidationError{Message: "stream name is required"}
	}
	stream.Name = strings.TrimSpace(input.Name)
	stream.Description = strings.TrimSpace(input.Description)
	if err := a.streams.UpdateClassStream(ctx, stream); err != nil {
		return model.ClassStream{}, err
	}
	return stream, nil
}

func (a *AcademicCatalog) GetClassStream(ctx context.Context, id string) (model.ClassStream, error) {
	return a.streams.GetClassStreamByID(ctx, id)
}

func (a *AcademicCatalog) DeleteClassStream(ctx context.Context, id string) error {
	return a.streams.DeleteClassStream(ctx, id)
}

func (a *AcademicCatalog) ListClassStreams(ctx context.Context, class model.Class) ([]model.ClassStream, error) {
	return a.streams.ListClassStreams(ctx, class)
}
