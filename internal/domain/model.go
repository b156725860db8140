package domain

import (
    "strconv"
    "time"
)

// Core domain models shared by the engine, the snapshot sources and the HTTP
// adapter. API payloads reuse these through their json tags.

const (
    // ApprovedState is the only approval label that counts as approved.
    ApprovedState = "Approved"
    // NotStartedState labels a submission that carries no approval state.
    NotStartedState = "Not Started"
    // UnknownDepartment is used for users without a department and for
    // attributions that could not be matched to the directory.
    UnknownDepartment = "Unknown Department"
    // AllDepartments is the selector value meaning "no department filter".
    AllDepartments = "All Departments"
)

// UserRef is the structured author reference attached by the list service.
type UserRef struct {
    ID                string `json:"id,omitempty"`
    DisplayName       string `json:"displayName,omitempty"`
    Mail              string `json:"mail,omitempty"`
    UserPrincipalName string `json:"userPrincipalName,omitempty"`
}

// Submission is one performance-agreement list item.
type Submission struct {
    ID             string      `json:"id"`
    CreatedAt      string      `json:"createdDateTime"`
    CreatedBy      *UserRef    `json:"createdBy,omitempty"`
    Author         AuthorField `json:"author"`
    CreatedByField AuthorField `json:"createdByField"`
    ApprovalState  string      `json:"approvalStatus,omitempty"`
}

// DirectoryUser is an enabled account from the organisation directory.
type DirectoryUser struct {
    ID                string `json:"id"`
    DisplayName       string `json:"displayName"`
    Mail              string `json:"mail,omitempty"`
    UserPrincipalName string `json:"userPrincipalName,omitempty"`
    Department        string `json:"department,omitempty"`
    JobTitle          string `json:"jobTitle,omitempty"`
    AccountEnabled    bool   `json:"accountEnabled"`
}

// DepartmentOrUnknown returns the department label used for bucketing.
func (u DirectoryUser) DepartmentOrUnknown() string {
    if u.Department == "" {
        return UnknownDepartment
    }
    return u.Department
}

// Address returns the mail address, falling back to the principal name.
func (u DirectoryUser) Address() string {
    if u.Mail != "" {
        return u.Mail
    }
    return u.UserPrincipalName
}

// Status is the three-valued completion status of an employee.
type Status string

const (
    StatusApproved   Status = "Approved"
    StatusInProgress Status = "In Progress"
    StatusNotStarted Status = "Not Started"
)

// SubmissionEntry is one attributed submission in an employee's history.
type SubmissionEntry struct {
    ID        string    `json:"id"`
    State     string    `json:"status"`
    CreatedAt time.Time `json:"createdAt"`
}

// EmployeePerformanceRecord aggregates every submission attributed to one identity.
type EmployeePerformanceRecord struct {
    IdentityKey string            `json:"identityKey"`
    Name        string            `json:"name"`
    Email       string            `json:"email"`
    Department  string            `json:"department"`
    DirectoryID string            `json:"directoryId,omitempty"`
    Submissions []SubmissionEntry `json:"submissions"`
    Status      Status            `json:"status"`
}

// Orphaned reports whether the record could not be tied to a directory user.
func (r EmployeePerformanceRecord) Orphaned() bool { return r.DirectoryID == "" }

// Rate is a percentage rounded to one decimal. It is written to JSON with
// exactly one decimal place, so 50 is sent as 50.0.
type Rate float64

func (r Rate) MarshalJSON() ([]byte, error) {
    return strconv.AppendFloat(nil, float64(r), 'f', 1, 64), nil
}

// Stat holds the counts for one department or for the whole organisation.
type Stat struct {
    TotalEmployees int  `json:"totalEmployees"`
    Completed      int  `json:"completed"`
    InProgress     int  `json:"inProgress"`
    NotStarted     int  `json:"notStarted"`
    CompletionRate Rate `json:"completionRate"`
}

// SeriesPoint is one slice of the completion chart.
type SeriesPoint struct {
    Label      string `json:"label"`
    Count      int    `json:"count"`
    ColorToken string `json:"color"`
    Percentage Rate   `json:"percentage"`
}

// RosterEntry is one row of the employee list.
type RosterEntry struct {
    Name             string     `json:"name"`
    Email            string     `json:"email"`
    Department       string     `json:"department"`
    Status           Status     `json:"status"`
    SubmissionCount  int        `json:"recordCount"`
    FirstSubmittedAt *time.Time `json:"createdDate,omitempty"`
    LastSubmittedAt  *time.Time `json:"lastSubmittedAt,omitempty"`
}

// ListInfo names a list discovered on the source site.
type ListInfo struct {
    ID   string `json:"id"`
    Name string `json:"name"`
}

// SourceDiagnostics describes how a snapshot was obtained.
type SourceDiagnostics struct {
    Source         string     `json:"source"`
    SiteID         string     `json:"siteId,omitempty"`
    AvailableLists []ListInfo `json:"availableLists,omitempty"`
    SelectedList   *ListInfo  `json:"selectedList,omitempty"`
}

// Snapshot is one complete, validated pair of input collections.
type Snapshot struct {
    ID          string            `json:"id"`
    FetchedAt   time.Time         `json:"fetchedAt"`
    Submissions []Submission      `json:"-"`
    Directory   []DirectoryUser   `json:"-"`
    Source      SourceDiagnostics `json:"source"`
}
