package api

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type Registration struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type Profile struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type User struct {
	ID        int    `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
}

type CreateUser struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Group is a study group as the backend returns it
type Group struct {
	ID               string `json:"id"`
	GroupName        string `json:"groupName"`
	Subject          string `json:"subject"`
	Description      string `json:"description"`
	MaxMembers       int    `json:"maxMembers"`
	SkillLevel       string `json:"skillLevel"`
	MeetingFrequency string `json:"meetingFrequency"`
	MeetingTime      string `json:"meetingTime,omitempty"`
	MeetingDate      string `json:"meetingDate,omitempty"`
	Location         string `json:"location,omitempty"`
	CreatedAt        string `json:"created_at,omitempty"`
	CreatorID        string `json:"creatorId,omitempty"`
}

// GroupInput is what CreateGroup sends
type GroupInput struct {
	GroupName        string `json:"groupName"`
	Subject          string `json:"subject"`
	Description      string `json:"description,omitempty"`
	MaxMembers       int    `json:"maxMembers,omitempty"`
	SkillLevel       string `json:"skillLevel,omitempty"`
	MeetingFrequency string `json:"meetingFrequency,omitempty"`
	MeetingTime      string `json:"meetingTime,omitempty"`
	MeetingDate      string `json:"meetingDate,omitempty"`
	Location         string `json:"location,omitempty"`
}
