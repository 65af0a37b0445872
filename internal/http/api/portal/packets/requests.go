package packets

import "time"

type CreatePreachingRequest struct {
	Title       string   `json:"title"       form:"title"       binding:"required,notblank,max=200"`
	Preacher    string   `json:"preacher"    form:"preacher"    binding:"required,notblank,max=120"`
	Kind        string   `json:"kind"        form:"kind"        binding:"required,oneof=daily sunday"`
	PreachedOn  *Date    `json:"preached_on" form:"preached_on" binding:"required"`
	Verses      []string `json:"verses"      form:"verses"`
	Description string   `json:"description" form:"description"`
	AudioURL    *string  `json:"audio_url"   form:"audio_url"   binding:"omitempty,url"`
}

type UpdatePreachingRequest struct {
	Title       *string   `json:"title"       binding:"omitempty,notblank,max=200"`
	Preacher    *string   `json:"preacher"    binding:"omitempty,notblank,max=120"`
	Kind        *string   `json:"kind"        binding:"omitempty,oneof=daily sunday"`
	PreachedOn  *Date     `json:"preached_on"`
	Verses      *[]string `json:"verses"`
	Description *string   `json:"description"`
	AudioURL    *string   `json:"audio_url"   binding:"omitempty,url"`
}

type CreateStudyRequest struct {
	Title     string   `json:"title"     binding:"required,notblank,max=200"`
	Content   string   `json:"content"   binding:"required,notblank"`
	Verses    []string `json:"verses"`
	Questions []string `json:"questions"`
}

type UpdateStudyRequest struct {
	Title     *string   `json:"title"     binding:"omitempty,notblank,max=200"`
	Content   *string   `json:"content"   binding:"omitempty,notblank"`
	Verses    *[]string `json:"verses"`
	Questions *[]string `json:"questions"`
}

type CommentRequest struct {
	Body     string `json:"body"      binding:"required,notblank,max=2000"`
	ParentID *int   `json:"parent_id" binding:"omitempty,min=1"`
}

type CreateBaptismClassRequest struct {
	Name     string  `json:"name"     binding:"required,notblank,max=120"`
	Teacher  string  `json:"teacher"  binding:"required,notblank,max=120"`
	Location *string `json:"location"`
	StartsOn *Date   `json:"starts_on" binding:"required"`
	EndsOn   *Date   `json:"ends_on"   binding:"required"`
	Capacity *int    `json:"capacity" binding:"omitempty,min=1"`
}

type UpdateBaptismClassRequest struct {
	Name     *string `json:"name"     binding:"omitempty,notblank,max=120"`
	Teacher  *string `json:"teacher"  binding:"omitempty,notblank,max=120"`
	Location *string `json:"location"`
	StartsOn *Date   `json:"starts_on"`
	EndsOn   *Date   `json:"ends_on"`
	Capacity *int    `json:"capacity" binding:"omitempty,min=1"`
}

type RegisterStudentRequest struct {
	FullName string  `json:"full_name" binding:"required,notblank,max=160"`
	Email    *string `json:"email"     binding:"omitempty,email"`
	Phone    *string `json:"phone"     binding:"omitempty,e164"`
}

type UpdateStudentRequest struct {
	FullName   *string `json:"full_name"   binding:"omitempty,notblank,max=160"`
	Email      *string `json:"email"       binding:"omitempty,email"`
	Phone      *string `json:"phone"       binding:"omitempty,e164"`
	Status     *string `json:"status"      binding:"omitempty,oneof=pending approved rejected"`
	Baptized   *bool   `json:"baptized"`
	BaptizedOn *Date   `json:"baptized_on"`
}

type CreateDepartmentRequest struct {
	Name        string   `json:"name"        binding:"required,notblank,max=120"`
	Description string   `json:"description"`
	Leader      *string  `json:"leader"`
	Members     []string `json:"members"`
	Plans       []string `json:"plans"`
	Actions     []string `json:"actions"`
}

type UpdateDepartmentRequest struct {
	Name        *string   `json:"name"        binding:"omitempty,notblank,max=120"`
	Description *string   `json:"description"`
	Leader      *string   `json:"leader"`
	Members     *[]string `json:"members"`
	Plans       *[]string `json:"plans"`
	Actions     *[]string `json:"actions"`
}

type CommitteeMemberRequest struct {
	Name string `json:"name" binding:"required,notblank,max=120"`
	Role string `json:"role" binding:"required,notblank,max=80"`
}

type CreateEventRequest struct {
	Title       string     `json:"title"       binding:"required,notblank,max=200"`
	Description string     `json:"description"`
	Location    *string    `json:"location"`
	StartsAt    *time.Time `json:"starts_at"   binding:"required"`
	EndsAt      *time.Time `json:"ends_at"     binding:"required"`
	Recurrence  *string    `json:"recurrence"  binding:"omitempty,cron"`
}

type UpdateEventRequest struct {
	Title       *string    `json:"title"       binding:"omitempty,notblank,max=200"`
	Description *string    `json:"description"`
	Location    *string    `json:"location"`
	StartsAt    *time.Time `json:"starts_at"`
	EndsAt      *time.Time `json:"ends_at"`
	Recurrence  *string    `json:"recurrence"  binding:"omitempty,cron"`
}

type CreateChoirRequest struct {
	Name        string  `json:"name"        binding:"required,notblank,max=120"`
	Description string  `json:"description"`
	Leader      *string `json:"leader"`
}

type UpdateChoirRequest struct {
	Name        *string `json:"name"        binding:"omitempty,notblank,max=120"`
	Description *string `json:"description"`
	Leader      *string `json:"leader"`
}

type CreateSongRequest struct {
	Title    string  `json:"title"     form:"title"     binding:"required,notblank,max=200"`
	Lyrics   *string `json:"lyrics"    form:"lyrics"`
	AudioURL *string `json:"audio_url" form:"audio_url" binding:"omitempty,url"`
}

type CreateVideoRequest struct {
	Title        string     `json:"title"         form:"title"         binding:"required,notblank,max=200"`
	Category     string     `json:"category"      form:"category"      binding:"required,notblank,max=60"`
	URL          string     `json:"url"           form:"url"           binding:"required,url"`
	ThumbnailURL *string    `json:"thumbnail_url" form:"thumbnail_url" binding:"omitempty,url"`
	PublishedAt  *time.Time `json:"published_at"  form:"published_at"`
}

type UpdateVideoRequest struct {
	Title        *string    `json:"title"         binding:"omitempty,notblank,max=200"`
	Category     *string    `json:"category"      binding:"omitempty,notblank,max=60"`
	URL          *string    `json:"url"           binding:"omitempty,url"`
	ThumbnailURL *string    `json:"thumbnail_url" binding:"omitempty,url"`
	PublishedAt  *time.Time `json:"published_at"`
}

type ThemePlanRequest struct {
	Day      int    `json:"day"      binding:"min=0,max=6"`
	Activity string `json:"activity" binding:"required,notblank,max=300"`
}

type CreateThemeRequest struct {
	Title     string             `json:"title"      binding:"required,notblank,max=200"`
	Verse     string             `json:"verse"      binding:"required,notblank,max=200"`
	WeekStart *Date              `json:"week_start" binding:"required"`
	Summary   *string            `json:"summary"`
	Plans     []ThemePlanRequest `json:"plans"      binding:"omitempty,dive"`
}

type UpdateThemeRequest struct {
	Title     *string `json:"title"      binding:"omitempty,notblank,max=200"`
	Verse     *string `json:"verse"      binding:"omitempty,notblank,max=200"`
	WeekStart *Date   `json:"week_start"`
	Summary   *string `json:"summary"`
}

type ReplacePlansRequest struct {
	Plans []ThemePlanRequest `json:"plans" binding:"required,dive"`
}

type CreateReminderRequest struct {
	TargetType string     `json:"target_type" binding:"required,oneof=event study"`
	TargetID   int        `json:"target_id"   binding:"required,min=1"`
	RemindAt   *time.Time `json:"remind_at"`
	Cron       *string    `json:"cron"        binding:"omitempty,cron"`
	Channels   []string   `json:"channels"    binding:"omitempty,dive,oneof=email sms push"`
	Note       *string    `json:"note"        binding:"omitempty,max=500"`
}
