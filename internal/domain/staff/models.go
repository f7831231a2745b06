package staff

import "time"

const (
	StatusActive    = "active"
	StatusInactive  = "inactive"
	StatusSuspended = "suspended"
	StatusBlacklist = "blacklist"
)

type Member struct {
	ID              string    `json:"id"`
	FullName        string    `json:"fullName"`
	Role            string    `json:"role"`
	Location        string    `json:"location"`
	Gender          string    `json:"gender"`
	Age             int       `json:"age"`
	ExperienceYears int       `json:"experienceYears"`
	Salary          float64   `json:"salary"`
	ContractType    string    `json:"contractType"`
	Accommodation   bool      `json:"accommodation"`
	Skills          []string  `json:"skills"`
	Verified        bool      `json:"verified"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"createdAt"`
}

// Filter narrows the catalog. Zero values mean "no constraint".
type Filter struct {
	Query         string
	Role          string
	Location      string
	Gender        string
	ContractType  string
	Skill         string
	MinAge        int
	MaxAge        int
	MinExperience int
	MaxExperience int
	MinSalary     float64
	MaxSalary     float64
	Accommodation *bool
}

// Page is one slice of the catalog after quota gating.
type Page struct {
	Items      []Member `json:"items"`
	Page       int      `json:"page"`
	PageSize   int      `json:"pageSize"`
	Total      int      `json:"total"`
	Accessible int      `json:"accessible"`
	HasMore    bool     `json:"hasMore"`
}
