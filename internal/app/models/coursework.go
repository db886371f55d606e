package models

// Assignment is coursework set by a teacher for a class
type Assignment struct {
	ID          ID      `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	ClassID     ID      `json:"classId"`
	SubjectID   ID      `json:"subjectId"`
	Class       *Ref    `json:"class,omitempty"`
	Subject     *Ref    `json:"subject,omitempty"`
	DueDate     string  `json:"dueDate"`
	MaxScore    float64 `json:"maxScore"`
	// Status is set on student and parent views: pending, submitted, graded
	Status string `json:"status,omitempty"`
	Timestamps
}

type AssignmentRequest struct {
	Title       string  `json:"title" form:"title" binding:"required,min=2,max=200"`
	Description string  `json:"description" form:"description" binding:"max=5000"`
	ClassID     string  `json:"classId" form:"classId" binding:"required"`
	SubjectID   string  `json:"subjectId" form:"subjectId" binding:"required"`
	DueDate     string  `json:"dueDate" form:"dueDate" binding:"required,datetime=2006-01-02"`
	MaxScore    float64 `json:"maxScore" form:"maxScore" binding:"gte=0"`
}

// Submission is a student's answer to an assignment
type Submission struct {
	ID           ID       `json:"id"`
	AssignmentID ID       `json:"assignmentId"`
	StudentID    ID       `json:"studentId"`
	StudentName  string   `json:"studentName"`
	Content      string   `json:"content"`
	FileURL      string   `json:"fileUrl"`
	SubmittedAt  string   `json:"submittedAt"`
	Score        *float64 `json:"score"`
	Feedback     string   `json:"feedback"`
	Timestamps
}

// Graded reports whether the submission has a score
func (s Submission) Graded() bool { return s.Score != nil }

type SubmitAssignmentRequest struct {
	Content string `json:"content" form:"content" binding:"required_without=FileURL,max=20000"`
	FileURL string `json:"fileUrl,omitempty" form:"fileUrl" binding:"omitempty,url"`
}

type GradeSubmissionRequest struct {
	Score    float64 `json:"score" form:"score" binding:"gte=0"`
	Feedback string  `json:"feedback" form:"feedback" binding:"max=2000"`
}

// Material is a learning resource shared by a teacher
type Material struct {
	ID          ID     `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	FileURL     string `json:"fileUrl"`
	ClassID     ID     `json:"classId"`
	SubjectID   ID     `json:"subjectId"`
	Class       *Ref   `json:"class,omitempty"`
	Subject     *Ref   `json:"subject,omitempty"`
	Timestamps
}

type MaterialRequest struct {
	Title       string `json:"title" form:"title" binding:"required,min=2,max=200"`
	Description string `json:"description" form:"description" binding:"max=2000"`
	FileURL     string `json:"fileUrl" form:"fileUrl" binding:"omitempty,url"`
	ClassID     string `json:"classId" form:"classId" binding:"required"`
	SubjectID   string `json:"subjectId" form:"subjectId" binding:"required"`
}

// Syllabus describes the plan of a subject for a class and year
type Syllabus struct {
	ID           ID     `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	SubjectID    ID     `json:"subjectId"`
	ClassID      ID     `json:"classId"`
	Subject      *Ref   `json:"subject,omitempty"`
	Class        *Ref   `json:"class,omitempty"`
	FileURL      string `json:"fileUrl"`
	AcademicYear string `json:"academicYear"`
	Timestamps
}

type SyllabusRequest struct {
	Title        string `json:"title" form:"title" binding:"required,min=2,max=200"`
	Description  string `json:"description" form:"description" binding:"max=5000"`
	SubjectID    string `json:"subjectId" form:"subjectId" binding:"required"`
	ClassID      string `json:"classId" form:"classId" binding:"required"`
	FileURL      string `json:"fileUrl" form:"fileUrl" binding:"omitempty,url"`
	AcademicYear string `json:"academicYear" form:"academicYear" binding:"max=20"`
}

// AttendanceStatus of one student on one day
type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceAbsent  AttendanceStatus = "absent"
	AttendanceLate    AttendanceStatus = "late"
	AttendanceExcused AttendanceStatus = "excused"
)

// AttendanceStatuses lists the statuses in display order
var AttendanceStatuses = []AttendanceStatus{AttendancePresent, AttendanceAbsent, AttendanceLate, AttendanceExcused}

// AttendanceRecord is one student's attendance on a date
type AttendanceRecord struct {
	ID          ID               `json:"id"`
	StudentID   ID               `json:"studentId"`
	StudentName string           `json:"studentName"`
	ClassID     ID               `json:"classId"`
	Date        string           `json:"date"`
	Status      AttendanceStatus `json:"status"`
	Timestamps
}

// AttendanceEntry is one line of a roll call
type AttendanceEntry struct {
	StudentID string           `json:"studentId"`
	Status    AttendanceStatus `json:"status"`
}

// MarkAttendanceRequest records a whole class roll call
type MarkAttendanceRequest struct {
	ClassID string            `json:"classId"`
	Date    string            `json:"date"`
	Records []AttendanceEntry `json:"records"`
}

// Grade is a scored result for a student
type Grade struct {
	ID           ID      `json:"id"`
	StudentID    ID      `json:"studentId"`
	SubjectID    ID      `json:"subjectId"`
	SubjectName  string  `json:"subjectName"`
	AssignmentID ID      `json:"assignmentId"`
	Assignment   string  `json:"assignmentTitle"`
	Score        float64 `json:"score"`
	MaxScore     float64 `json:"maxScore"`
	Term         string  `json:"term"`
	Timestamps
}

// Percent is the score as a percentage of MaxScore, or the raw score when
// MaxScore is unknown.
func (g Grade) Percent() float64 {
	if g.MaxScore <= 0 {
		return g.Score
	}
	return g.Score / g.MaxScore * 100
}

// Announcement is a notice a teacher posts to a class
type Announcement struct {
	ID      ID     `json:"id"`
	Title   string `json:"title"`
	Body    string `json:"content"`
	ClassID ID     `json:"classId"`
	Class   *Ref   `json:"class,omitempty"`
	Timestamps
}

type AnnouncementRequest struct {
	Title   string `json:"title" form:"title" binding:"required,min=2,max=200"`
	Body    string `json:"content" form:"content" binding:"required,max=5000"`
	ClassID string `json:"classId,omitempty" form:"classId"`
}

// ChildPerformance is the per child summary returned to parents
type ChildPerformance struct {
	AverageGrade         float64 `json:"averageGrade"`
	AttendanceRate       float64 `json:"attendanceRate"`
	PendingAssignments   int     `json:"pendingAssignments"`
	CompletedAssignments int     `json:"completedAssignments"`
}

// StudentDashboard is the backend's student summary
type StudentDashboard struct {
	SubjectCount         int     `json:"subjectCount"`
	PendingAssignments   int     `json:"pendingAssignments"`
	CompletedAssignments int     `json:"completedAssignments"`
	AverageGrade         float64 `json:"averageGrade"`
	AttendanceRate       float64 `json:"attendanceRate"`
}

// UploadedFile is returned by the upload endpoint
type UploadedFile struct {
	URL      string `json:"url"`
	FileName string `json:"fileName"`
}
