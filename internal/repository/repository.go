package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/D-J-Software-Engineers/Notes-Management-System/internal/model"
	"github.com/D-J-Software-Engineers/Notes-Management-System/internal/portal"
)

const uniqueViolation = "23505"

// Store is the Postgres implementation of the portal storage ports.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func NewPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

func mapWriteErr(err error, conflict string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return &portal.ConflictError{Message: conflict}
	}
	return err
}

func notFound(err error, what string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return &portal.NotFoundError{Message: what + " not found"}
	}
	return err
}

// ---- accounts ----

const accountColumns = `id, name, email, password_hash, role, level, class, class_stream, stream, combination, confirmed, active, created_at, updated_at`

func (s *Store) CreateAccount(ctx context.Context, account model.Account) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO accounts (`+accountColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`, account.ID, account.Name, account.Email, account.PasswordHash, string(account.Role),
		nullIfEmpty(string(account.Placement.Level)), nullIfEmpty(string(account.Placement.Class)),
		nullIfEmpty(account.Placement.ClassStream), nullIfEmpty(string(account.Placement.Stream)),
		nullIfEmpty(account.Placement.Combination),
		account.Confirmed, account.Active, account.CreatedAt, account.UpdatedAt)
	return mapWriteErr(err, "email is already registered")
}

func (s *Store) GetAccountByID(ctx context.Context, id string) (model.Account, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id)
	account, err := scanAccount(row)
	return account, notFound(err, "account")
}

func (s *Store) GetAccountByEmail(ctx context.Context, email string) (model.Account, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE email = $1`, email)
	account, err := scanAccount(row)
	return account, notFound(err, "account")
}

func (s *Store) UpdateAccount(ctx context.Context, account model.Account) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE accounts
		SET name = $2, email = $3, password_hash = $4, confirmed = $5, active = $6, updated_at = $7
		WHERE id = $1
	`, account.ID, account.Name, account.Email, account.PasswordHash, account.Confirmed, account.Active, account.UpdatedAt)
	if err != nil {
		return mapWriteErr(err, "email is already registered")
	}
	if tag.RowsAffected() == 0 {
		return &portal.NotFoundError{Message: "account not found"}
	}
	return nil
}

func (s *Store) DeleteAccount(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return &portal.NotFoundError{Message: "account not found"}
	}
	return nil
}

func (s *Store) ListAccounts(ctx context.Context, filter portal.AccountFilter) ([]model.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts`
	var clauses []string
	var args []interface{}

	add := func(clause string, arg interface{}) {
		args = append(args, arg)
		clauses = append(clauses, fmt.Sprintf(clause, len(args)))
	}
	if filter.Role != "" {
		add("role = $%d", string(filter.Role))
	}
	if filter.Level != "" {
		add("level = $%d", string(filter.Level))
	}
	if filter.Class != "" {
		add("class = $%d", string(filter.Class))
	}
	if filter.Confirmed != nil {
		add("confirmed = $%d", *filter.Confirmed)
	}
	if filter.Active != nil {
		add("active = $%d", *filter.Active)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		args = append(args, "%"+search+"%")
		clauses = append(clauses, fmt.Sprintf("(name ILIKE $%d OR email ILIKE $%d)", len(args), len(args)))
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY created_at DESC"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []model.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}
	return accounts, rows.Err()
}

func (s *Store) AccountStats(ctx context.Context) (model.AccountStats, error) {
	var stats model.AccountStats
	row := s.pool.QueryRow(ctx, `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE role = 'student'),
			COUNT(*) FILTER (WHERE role = 'admin'),
			COUNT(*) FILTER (WHERE active),
			COUNT(*) FILTER (WHERE NOT active),
			COUNT(*) FILTER (WHERE NOT confirmed),
			COUNT(*) FILTER (WHERE confirmed),
			COUNT(*) FILTER (WHERE level = 'o-level'),
			COUNT(*) FILTER (WHERE level = 'a-level')
		FROM accounts
	`)
	err := row.Scan(&stats.Total, &stats.Students, &stats.Admins, &stats.Active, &stats.Inactive,
		&stats.Pending, &stats.Confirmed, &stats.OLevel, &stats.ALevel)
	return stats, err
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAccount(row rowScanner) (model.Account, error) {
	var account model.Account
	var role string
	var level, class, classStream, stream, combination *string
	err := row.Scan(
		&account.ID, &account.Name, &account.Email, &account.PasswordHash, &role,
		&level, &class, &classStream, &stream, &combination,
		&account.Confirmed, &account.Active, &account.CreatedAt, &account.UpdatedAt,
	)
	if err != nil {
		return model.Account{}, err
	}
	account.Role = model.Role(role)
	account.Placement = model.Placement{
		Level:       model.Level(deref(level)),
		Class:       model.Class(deref(class)),
		ClassStream: deref(classStream),
		Stream:      model.Stream(deref(stream)),
		Combination: deref(combination),
	}
	return account, nil
}

// ---- content ----

const contentColumns = `id, kind, title, description, subject, level, class, class_stream, stream, combination, uploaded_by, views, downloads, active, created_at, updated_at`

func (s *Store) CreateContent(ctx context.Context, item model.ContentItem) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO content_items (`+contentColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`, item.ID, string(item.Kind), item.Title, item.Description, item.Subject,
		string(item.Visibility.Level), string(item.Visibility.Class),
		ruleValue(item.Visibility.ClassStream), ruleValue(item.Visibility.Stream), ruleValue(item.Visibility.Combination),
		nullIfEmpty(item.UploadedBy), item.Views, item.Downloads, item.Active, item.CreatedAt, item.UpdatedAt)
	return err
}

func (s *Store) GetContentByID(ctx context.Context, id string) (model.ContentItem, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+contentColumns+` FROM content_items WHERE id = $1`, id)
	item, err := scanContent(row)
	return item, notFound(err, "content item")
}

func (s *Store) UpdateContent(ctx context.Context, item model.ContentItem) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE content_items
		SET title = $2, description = $3, subject = $4, level = $5, class = $6,
		    class_stream = $7, stream = $8, combination = $9, active = $10, updated_at = $11
		WHERE id = $1
	`, item.ID, item.Title, item.Description, item.Subject,
		string(item.Visibility.Level), string(item.Visibility.Class),
		ruleValue(item.Visibility.ClassStream), ruleValue(item.Visibility.Stream), ruleValue(item.Visibility.Combination),
		item.Active, item.UpdatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return &portal.NotFoundError{Message: "content item not found"}
	}
	return nil
}

func (s *Store) DeleteContent(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM content_items WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return &portal.NotFoundError{Message: "content item not found"}
	}
	return nil
}

func (s *Store) ListContent(ctx context.Context, filter portal.ContentFilter) ([]model.ContentItem, error) {
	query := `SELECT ` + contentColumns + ` FROM content_items WHERE active`
	var args []interface{}

	add := func(clause string, arg interface{}) {
		args = append(args, arg)
		query += fmt.Sprintf(" AND "+clause, len(args))
	}
	if filter.Kind != "" {
		add("kind = $%d", string(filter.Kind))
	}
	if filter.Level != "" {
		add("level = $%d", string(filter.Level))
	}
	if filter.Class != "" {
		add("class = $%d", string(filter.Class))
	}
	if filter.Subject != "" {
		add("subject = $%d", filter.Subject)
	}
	query += " ORDER BY created_at DESC"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []model.ContentItem
	for rows.Next() {
		item, err := scanContent(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (s *Store) IncrementContentViews(ctx context.Context, id string) error {
	_, err := s.pool.Exec(ctx, `UPDATE content_items SET views = views + 1 WHERE id = $1`, id)
	return err
}

func (s *Store) IncrementContentDownloads(ctx context.Context, id string) error {
	_, err := s.pool.Exec(ctx, `UPDATE content_items SET downloads = downloads + 1 WHERE id = $1`, id)
	return err
}

func scanContent(row rowScanner) (model.ContentItem, error) {
	var item model.ContentItem
	var kind, level, class string
	var classStream, stream, combination, uploadedBy *string
	err := row.Scan(
		&item.ID, &kind, &item.Title, &item.Description, &item.Subject,
		&level, &class, &classStream, &stream, &combination,
		&uploadedBy, &item.Views, &item.Downloads, &item.Active, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		return model.ContentItem{}, err
	}
	item.Kind = model.ContentKind(kind)
	item.UploadedBy = deref(uploadedBy)
	item.Visibility = model.Visibility{
		Level:       model.Level(level),
		Class:       model.Class(class),
		ClassStream: ruleFrom(classStream),
		Stream:      ruleFrom(stream),
		Combination: ruleFrom(combination),
	}
	return item, nil
}

// ---- class streams ----

func (s *Store) CreateClassStream(ctx context.Context, stream model.ClassStream) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO class_streams (id, name, class, description, active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, stream.ID, stream.Name, string(stream.Class), stream.Description, stream.Active, stream.CreatedAt)
	return mapWriteErr(err, fmt.Sprintf("stream %q already exists for this class", stream.Name))
}

func (s *Store) GetClassStreamByID(ctx context.Context, id string) (model.ClassStream, error) {
	var stream model.ClassStream
	var class string
	row := s.pool.QueryRow(ctx, `
		SELECT id, name, class, description, active, created_at FROM class_streams WHERE id = $1
	`, id)
	err := row.Scan(&stream.ID, &stream.Name, &class, &stream.Description, &stream.Active, &stream.CreatedAt)
	if err != nil {
		return model.ClassStream{}, notFound(err, "class stream")
	}
	stream.Class = model.Class(class)
	return stream, nil
}

func (s *Store) UpdateClassStream(ctx context.Context, stream model.ClassStream) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE class_streams SET name = $2, description = $3, active = $4 WHERE id = $1
	`, stream.ID, stream.Name, stream.Description, stream.Active)
	if err != nil {
		return mapWriteErr(err, fmt.Sprintf("stream %q already exists for this class", stream.Name))
	}
	if tag.RowsAffected() == 0 {
		return &portal.NotFoundError{Message: "class stream not found"}
	}
	return nil
}

func (s *Store) DeleteClassStream(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM class_streams WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return &portal.NotFoundError{Message: "class stream not found"}
	}
	return nil
}

func (s *Store) ListClassStreams(ctx context.Context, class model.Class) ([]model.ClassStream, error) {
	query := `SELECT id, name, class, description, active, created_at FROM class_streams WHERE active`
	var args []interface{}
	if class != "" {
		args = append(args, string(class))
		query += ` AND class = $1`
	}
	query += ` ORDER BY class ASC, name ASC`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var streams []model.ClassStream
	for rows.Next() {
		var stream model.ClassStream
		var cls string
		if err := rows.Scan(&stream.ID, &stream.Name, &cls, &stream.Description, &stream.Active, &stream.CreatedAt); err != nil {
			return nil, err
		}
		stream.Class = model.Class(cls)
		streams = append(streams, stream)
	}
	return streams, rows.Err()
}

// ---- subjects ----

// CreateSubject inserts a subject. The unique constraint on
// (name, level, class) is declared NULLS NOT DISTINCT, so catalog-wide
// subjects with no class conflict too.
func (s *Store) CreateSubject(ctx context.Context, subject model.Subject) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO subjects (id, name, code, level, class, stream, compulsory, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, subject.ID, subject.Name, subject.Code, string(subject.Level),
		nullIfEmpty(string(subject.Class)), nullIfEmpty(string(subject.Stream)), subject.Compulsory, subject.CreatedAt)
	return mapWriteErr(err, fmt.Sprintf("subject %q already exists", subject.Name))
}

func (s *Store) GetSubjectByID(ctx context.Context, id string) (model.Subject, error) {
	var subject model.Subject
	var level string
	var class, stream *string
	row := s.pool.QueryRow(ctx, `
		SELECT id, name, code, level, class, stream, compulsory, created_at FROM subjects WHERE id = $1
	`, id)
	err := row.Scan(&subject.ID, &subject.Name, &subject.Code, &level, &class, &stream, &subject.Compulsory, &subject.CreatedAt)
	if err != nil {
		return model.Subject{}, notFound(err, "subject")
	}
	subject.Level = model.Level(level)
	subject.Class = model.Class(deref(class))
	subject.Stream = model.Stream(deref(stream))
	return subject, nil
}

func (s *Store) UpdateSubject(ctx context.Context, subject model.Subject) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE subjects
		SET name = $2, code = $3, level = $4, class = $5, stream = $6, compulsory = $7
		WHERE id = $1
	`, subject.ID, subject.Name, subject.Code, string(subject.Level),
		nullIfEmpty(string(subject.Class)), nullIfEmpty(string(subject.Stream)), subject.Compulsory)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return &portal.NotFoundError{Message: "subject not found"}
	}
	return nil
}

func (s *Store) DeleteSubject(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM subjects WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return &portal.NotFoundError{Message: "subject not found"}
	}
	return nil
}

func (s *Store) ListSubjects(ctx context.Context, level model.Level, class model.Class, stream model.Stream) ([]model.Subject, error) {
	query := `SELECT id, name, code, level, class, stream, compulsory, created_at FROM subjects`
	var clauses []string
	var args []interface{}

	add := func(clause string, arg interface{}) {
		args = append(args, arg)
		clauses = append(clauses, fmt.Sprintf(clause, len(args)))
	}
	if level != "" {
		add("level = $%d", string(level))
	}
	if class != "" {
		add("class = $%d", string(class))
	}
	if stream != "" {
		add("stream = $%d", string(stream))
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY level ASC, class ASC, name ASC"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subjects []model.Subject
	for rows.Next() {
		var subject model.Subject
		var lvl string
		var cls, str *string
		if err := rows.Scan(&subject.ID, &subject.Name, &subject.Code, &lvl, &cls, &str, &subject.Compulsory, &subject.CreatedAt); err != nil {
			return nil, err
		}
		subject.Level = model.Level(lvl)
		subject.Class = model.Class(deref(cls))
		subject.Stream = model.Stream(deref(str))
		subjects = append(subjects, subject)
	}
	return subjects, rows.Err()
}

// ---- helpers ----

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func ruleValue(rule model.Rule) *string {
	if value, ok := rule.Value(); ok {
		return &value
	}
	return nil
}

func ruleFrom(value *string) model.Rule {
	if value == nil {
		return model.AnyValue()
	}
	return model.Only(*value)
}
