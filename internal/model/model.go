package model

import "time"

// Role is the closed set of account roles. Every authorization decision
// switches on this type rather than comparing raw strings.
type Role string

const (
	RoleStudent Role = "student"
	RoleAdmin   Role = "admin"
)

func (r Role) Valid() bool {
	return r == RoleStudent || r == RoleAdmin
}

// Level is the two-tier curriculum stage.
type Level string

const (
	LevelOLevel Level = "o-level"
	LevelALevel Level = "a-level"
)

func (l Level) Valid() bool {
	return l == LevelOLevel || l == LevelALevel
}

// Class is a year-group within a level: s1-s4 for O-Level, s5-s6 for A-Level.
type Class string

const (
	ClassS1 Class = "s1"
	ClassS2 Class = "s2"
	ClassS3 Class = "s3"
	ClassS4 Class = "s4"
	ClassS5 Class = "s5"
	ClassS6 Class = "s6"
)

// BelongsTo reports whether the class is a valid year-group for the level.
func (c Class) BelongsTo(level Level) bool {
	switch level {
	case LevelOLevel:
		return c == ClassS1 || c == ClassS2 || c == ClassS3 || c == ClassS4
	case LevelALevel:
		return c == ClassS5 || c == ClassS6
	default:
		return false
	}
}

// Stream is an A-Level academic track.
type Stream string

const (
	StreamArts    Stream = "arts"
	StreamScience Stream = "science"
)

func (s Stream) Valid() bool {
	return s == StreamArts || s == StreamScience
}

// Placement is the viewer side of content visibility: where a student sits
// in the school. Admins carry a zero Placement.
type Placement struct {
	Level       Level  `json:"level,omitempty"`
	Class       Class  `json:"class,omitempty"`
	ClassStream string `json:"classStream,omitempty"`
	Stream      Stream `json:"stream,omitempty"`
	Combination string `json:"combination,omitempty"`
}

// Account is a registered person: identity, role, placement and the two
// lifecycle flags. Rejection is not a flag; rejected accounts are deleted.
type Account struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	Placement    Placement `json:"placement"`
	Confirmed    bool      `json:"isConfirmed"`
	Active       bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Rule constrains a single visibility attribute on a content item. The zero
// value matches every viewer; Only(v) matches viewers whose attribute equals
// v exactly. Absence is only ever a wildcard on the item side, never on the
// viewer side.
type Rule struct {
	value string
	set   bool
}

// AnyValue is the broadcast rule: it matches every viewer.
func AnyValue() Rule { return Rule{} }

// Only restricts the attribute to one exact value.
func Only(value string) Rule { return Rule{value: value, set: true} }

func (r Rule) IsAny() bool { return !r.set }

// Value returns the restriction and whether one is set.
func (r Rule) Value() (string, bool) { return r.value, r.set }

// Matches reports whether a viewer attribute satisfies the rule. An unset
// rule matches anything, including an empty viewer attribute.
func (r Rule) Matches(viewer string) bool {
	return !r.set || r.value == viewer
}

// Visibility is the item side of content visibility. Level and class are
// required exact matches; the remaining attributes are wildcard-capable.
type Visibility struct {
	Level       Level
	Class       Class
	ClassStream Rule // o-level sectioning, unset = whole class
	Stream      Rule // a-level track, unset = both streams
	Combination Rule // a-level combination, unset = every combination
}

// ContentKind distinguishes the three content surfaces, which all carry the
// same visibility attributes.
type ContentKind string

const (
	KindNote     ContentKind = "note"
	KindQuiz     ContentKind = "quiz"
	KindResource ContentKind = "resource"
)

func (k ContentKind) Valid() bool {
	return k == KindNote || k == KindQuiz || k == KindResource
}

// ContentItem generalizes notes, quizzes and link resources.
type ContentItem struct {
	ID          string      `json:"id"`
	Kind        ContentKind `json:"kind"`
	Title       string      `json:"title"`
	Description string      `json:"description,omitempty"`
	Subject     string      `json:"subject"`
	Visibility  Visibility  `json:"-"`
	UploadedBy  string      `json:"uploadedBy"`
	Views       int64       `json:"views"`
	Downloads   int64       `json:"downloads"`
	Active      bool        `json:"isActive"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// CombinationDefinition maps an A-Level combination code to its subject
// triple, e.g. PCM -> Physics, Chemistry, Mathematics.
type CombinationDefinition struct {
	Code     string   `json:"code"`
	Name     string   `json:"name"`
	Subjects []string `json:"subjects"`
}

// ClassStream is an admin-defined section within an O-Level class,
// e.g. "S1 A".
type ClassStream struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Class       Class     `json:"class"`
	Description string    `json:"description,omitempty"`
	Active      bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Subject is a taught subject within a level/class.
type Subject struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Code       string    `json:"code,omitempty"`
	Level      Level     `json:"level"`
	Class      Class     `json:"class,omitempty"`
	Stream     Stream    `json:"stream,omitempty"`
	Compulsory bool      `json:"isCompulsory"`
	CreatedAt  time.Time `json:"createdAt"`
}

// AccountStats is the admin dashboard roll-up.
type AccountStats struct {
	Total     int `json:"total"`
	Students  int `json:"students"`
	Admins    int `json:"admins"`
	Active    int `json:"active"`
	Inactive  int `json:"inactive"`
	Pending   int `json:"pending"`
	Confirmed int `json:"confirmed"`
	OLevel    int `json:"oLevel"`
	ALevel    int `json:"aLevel"`
}
