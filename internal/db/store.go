// exposes a Store interface that is passed to API calls w/ param requirements
package db

import (
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/Obed704/church-portal/internal/model"
)

var (
	ErrDuplicate = errors.New("duplicate record")
	ErrClassFull = errors.New("baptism class is full")
)

type UserStore interface {
	CreateUser(email, hashedPassword string, name *string, role string) (int, error)
	GetUserByEmail(email string) (*model.User, error)
	GetUserByID(id int) (*model.User, error)
	UpdateUserProfile(id int, email string, name, phone *string) error
}

type PreachingStore interface {
	ListPreachings(q ListQuery, f PreachingFilter) ([]model.Preaching, int, error)
	GetPreaching(id int) (model.Preaching, error)
	GetPreachingForDay(kind string, day time.Time) (model.Preaching, error)
	CreatePreaching(p model.Preaching) (model.Preaching, error)
	UpdatePreaching(id int, patch PreachingPatch) (model.Preaching, error)
	DeletePreaching(id int) error
}

type StudyStore interface {
	ListStudies(q ListQuery) ([]model.Study, int, error)
	GetStudy(id int) (model.Study, error)
	CreateStudy(s model.Study) (model.Study, error)
	UpdateStudy(id int, patch StudyPatch) (model.Study, error)
	DeleteStudy(id int) error
	AddStudyComment(studyID, userID int, body string) (model.StudyComment, error)
	GetStudyComment(id int) (model.StudyComment, error)
	DeleteStudyComment(id int) error
}

type BaptismStore interface {
	ListBaptismClasses(q ListQuery) ([]model.BaptismClass, int, error)
	GetBaptismClass(id int) (model.BaptismClass, error)
	CreateBaptismClass(c model.BaptismClass) (model.BaptismClass, error)
	UpdateBaptismClass(id int, patch BaptismClassPatch) (model.BaptismClass, error)
	DeleteBaptismClass(id int) error
	RegisterStudent(classID int, s model.BaptismStudent) (model.BaptismStudent, error)
	GetStudent(classID, studentID int) (model.BaptismStudent, error)
	UpdateStudent(classID, studentID int, patch StudentPatch) (model.BaptismStudent, error)
	DeleteStudent(classID, studentID int) error
	BaptismStats(classID int) (model.BaptismStats, error)
}

type DepartmentStore interface {
	ListDepartments(q ListQuery) ([]model.Department, int, error)
	GetDepartment(id int) (model.Department, error)
	CreateDepartment(d model.Department) (model.Department, error)
	UpdateDepartment(id int, patch DepartmentPatch) (model.Department, error)
	DeleteDepartment(id int) error
	AddCommitteeMember(departmentID int, name, role string) (model.CommitteeMember, error)
	RemoveCommitteeMember(departmentID, memberID int) error
	AddDepartmentComment(departmentID, userID int, parentID *int, body string) (model.DepartmentComment, error)
	GetDepartmentComment(id int) (model.DepartmentComment, error)
}

type EventStore interface {
	ListEvents(q ListQuery, f EventFilter) ([]model.Event, int, error)
	ListUpcomingEvents(now time.Time, limit int) ([]model.Event, error)
	GetEvent(id int) (model.Event, error)
	FindEvent(title string, startsAt time.Time) (model.Event, error)
	CreateEvent(e model.Event) (model.Event, error)
	UpdateEvent(id int, patch EventPatch) (model.Event, error)
	DeleteEvent(id int) error
	AddAttendee(eventID, userID int) error
	RemoveAttendee(eventID, userID int) error
}

type ChoirStore interface {
	ListChoirs(q ListQuery) ([]model.Choir, int, error)
	GetChoir(id int) (model.Choir, error)
	CreateChoir(c model.Choir) (model.Choir, error)
	UpdateChoir(id int, patch ChoirPatch) (model.Choir, error)
	DeleteChoir(id int) error
	AddSong(choirID int, s model.Song) (model.Song, error)
	DeleteSong(choirID, songID int) error
}

type VideoStore interface {
	ListVideos(q ListQuery, category string) ([]model.Video, int, error)
	GetVideo(id int) (model.Video, error)
	CreateVideo(v model.Video) (model.Video, error)
	UpdateVideo(id int, patch VideoPatch) (model.Video, error)
	DeleteVideo(id int) error
}

type ThemeStore interface {
	ListThemes(q ListQuery) ([]model.WeeklyTheme, int, error)
	GetTheme(id int) (model.WeeklyTheme, error)
	GetThemeForDate(day time.Time) (model.WeeklyTheme, error)
	CreateTheme(t model.WeeklyTheme) (model.WeeklyTheme, error)
	UpdateTheme(id int, patch ThemePatch) (model.WeeklyTheme, error)
	DeleteTheme(id int) error
	ReplaceThemePlans(themeID int, plans []model.ThemePlan) ([]model.ThemePlan, error)
}

type ReminderStore interface {
	CreateReminder(r model.Reminder) (model.Reminder, error)
	GetReminder(id int) (model.Reminder, error)
	ListReminders(userID int, state string) ([]model.Reminder, error)
	ListScheduledReminders() ([]model.Reminder, error)
	ListEventReminders(eventID int) ([]model.Reminder, error)
	RescheduleReminder(id int, remindAt time.Time, attempts int) error
	MarkReminder(id int, state string, at *time.Time) error
}

type ReactionStore interface {
	SetReaction(userID int, targetType string, targetID int, kind string) error
	DeleteReaction(userID int, targetType string, targetID int, kind string) error
	ListReactions(userID int, targetType, kind string) ([]model.Reaction, error)
	CountReactions(targetType string, targetID int) ([]model.ReactionCount, error)
	TargetExists(targetType string, targetID int) (bool, error)
}

type Store interface {
	UserStore
	PreachingStore
	StudyStore
	BaptismStore
	DepartmentStore
	EventStore
	ChoirStore
	VideoStore
	ThemeStore
	ReminderStore
	ReactionStore
}

type pgStore struct {
	db *sqlx.DB
}

// compile-time check that pgStore implements Store
// required so linter doesn't complain
var _ Store = (*pgStore)(nil)

func NewStore(db *sqlx.DB) Store {
	return &pgStore{db: db}
}

// reports whether err is a Postgres unique_violation.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

// arrayOrNil lets COALESCE keep the stored array when the patch leaves it unset.
func arrayOrNil(v *[]string) any {
	if v == nil {
		return nil
	}
	return pq.Array(*v)
}

func stringArray(v []string) pq.StringArray {
	if v == nil {
		return pq.StringArray{}
	}
	return pq.StringArray(v)
}
