package models

import "time"

// Timestamps are carried by every backend resource
type Timestamps struct {
	CreatedAt *time.Time `json:"createdAt,omitempty"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// Ref is the minimal shape of an embedded parent entity
type Ref struct {
	ID   ID     `json:"id"`
	Name string `json:"name"`
}

// RefName returns the referenced entity's name or the placeholder
func RefName(r *Ref) string {
	if r == nil {
		return Placeholder
	}
	return Display(r.Name)
}

// School is managed by the super admin
type School struct {
	ID      ID     `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Timestamps
}

type SchoolRequest struct {
	Name    string `json:"name" form:"name" binding:"required,min=2,max=200"`
	Address string `json:"address" form:"address" binding:"max=300"`
	Phone   string `json:"phone" form:"phone" binding:"max=30"`
	Email   string `json:"email" form:"email" binding:"omitempty,email"`
}

// Department groups subjects and teachers inside a school
type Department struct {
	ID          ID     `json:"id"`
	Name        string `json:"name"`
	Code        string `json:"code"`
	Description string `json:"description"`
	SchoolID    ID     `json:"schoolId"`
	Timestamps
}

type DepartmentRequest struct {
	Name        string `json:"name" form:"name" binding:"required,min=2,max=100"`
	Code        string `json:"code" form:"code" binding:"max=20"`
	Description string `json:"description" form:"description" binding:"max=500"`
}

// AcademicLevel is a grade/year band classes belong to
type AcademicLevel struct {
	ID          ID     `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Order       int    `json:"order"`
	Timestamps
}

type AcademicLevelRequest struct {
	Name        string `json:"name" form:"name" binding:"required,min=1,max=100"`
	Description string `json:"description" form:"description" binding:"max=500"`
	Order       int    `json:"order" form:"order" binding:"gte=0"`
}

// Subject is taught in classes
type Subject struct {
	ID           ID     `json:"id"`
	Name         string `json:"name"`
	Code         string `json:"code"`
	Description  string `json:"description"`
	DepartmentID ID     `json:"departmentId"`
	Department   *Ref   `json:"department,omitempty"`
	Timestamps
}

type SubjectRequest struct {
	Name         string `json:"name" form:"name" binding:"required,min=2,max=100"`
	Code         string `json:"code" form:"code" binding:"max=20"`
	Description  string `json:"description" form:"description" binding:"max=500"`
	DepartmentID string `json:"departmentId,omitempty" form:"departmentId"`
}

// Class is a cohort of students in an academic level
type Class struct {
	ID              ID     `json:"id"`
	Name            string `json:"name"`
	AcademicLevelID ID     `json:"academicLevelId"`
	AcademicLevel   *Ref   `json:"academicLevel,omitempty"`
	AcademicYear    string `json:"academicYear"`
	TeacherID       ID     `json:"teacherId"`
	Capacity        int    `json:"capacity"`
	Timestamps
}

type ClassRequest struct {
	Name            string `json:"name" form:"name" binding:"required,min=1,max=100"`
	AcademicLevelID string `json:"academicLevelId" form:"academicLevelId" binding:"required"`
	AcademicYear    string `json:"academicYear" form:"academicYear" binding:"max=20"`
	TeacherID       string `json:"teacherId,omitempty" form:"teacherId"`
	Capacity        int    `json:"capacity" form:"capacity" binding:"gte=0,lte=1000"`
}

// ClassSubject links a subject to a class and the teacher who teaches it
type ClassSubject struct {
	ID        ID   `json:"id"`
	ClassID   ID   `json:"classId"`
	SubjectID ID   `json:"subjectId"`
	TeacherID ID   `json:"teacherId"`
	Class     *Ref `json:"class,omitempty"`
	Subject   *Ref `json:"subject,omitempty"`
	Teacher   *Ref `json:"teacher,omitempty"`
	Timestamps
}

type ClassSubjectRequest struct {
	ClassID   string `json:"classId" form:"classId" binding:"required"`
	SubjectID string `json:"subjectId" form:"subjectId" binding:"required"`
	TeacherID string `json:"teacherId" form:"teacherId" binding:"required"`
}

// Teacher is a staff member of a school
type Teacher struct {
	ID            ID     `json:"id"`
	UserID        ID     `json:"userId"`
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	DepartmentID  ID     `json:"departmentId"`
	Department    *Ref   `json:"department,omitempty"`
	Qualification string `json:"qualification"`
	Timestamps
}

func (t Teacher) Name() string { return FullName(t.FirstName, t.LastName) }

type TeacherRequest struct {
	FirstName     string `json:"firstName" form:"firstName" binding:"required,min=2,max=100"`
	LastName      string `json:"lastName" form:"lastName" binding:"required,min=2,max=100"`
	Email         string `json:"email" form:"email" binding:"required,email"`
	Phone         string `json:"phone" form:"phone" binding:"max=30"`
	DepartmentID  string `json:"departmentId,omitempty" form:"departmentId"`
	Qualification string `json:"qualification" form:"qualification" binding:"max=200"`
	Password      string `json:"password,omitempty" form:"password" binding:"omitempty,min=8"`
}

// Student is enrolled in a class
type Student struct {
	ID            ID     `json:"id"`
	UserID        ID     `json:"userId"`
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	Email         string `json:"email"`
	StudentNumber string `json:"studentNumber"`
	ClassID       ID     `json:"classId"`
	Class         *Ref   `json:"class,omitempty"`
	DateOfBirth   string `json:"dateOfBirth"`
	Timestamps
}

func (s Student) Name() string { return FullName(s.FirstName, s.LastName) }

type StudentRequest struct {
	FirstName     string `json:"firstName" form:"firstName" binding:"required,min=2,max=100" validate:"required,min=2,max=100"`
	LastName      string `json:"lastName" form:"lastName" binding:"required,min=2,max=100" validate:"required,min=2,max=100"`
	Email         string `json:"email" form:"email" binding:"required,email" validate:"required,email"`
	StudentNumber string `json:"studentNumber" form:"studentNumber" binding:"max=30" validate:"max=30"`
	ClassID       string `json:"classId,omitempty" form:"classId"`
	DateOfBirth   string `json:"dateOfBirth,omitempty" form:"dateOfBirth" binding:"omitempty,datetime=2006-01-02" validate:"omitempty,datetime=2006-01-02"`
	Password      string `json:"password,omitempty" form:"password" binding:"omitempty,min=8"`
}

// Parent is linked to one or more students
type Parent struct {
	ID         ID     `json:"id"`
	UserID     ID     `json:"userId"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	StudentIDs []ID   `json:"studentIds"`
	Children   []Ref  `json:"children,omitempty"`
	Timestamps
}

func (p Parent) Name() string { return FullName(p.FirstName, p.LastName) }

type ParentRequest struct {
	FirstName  string   `json:"firstName" form:"firstName" binding:"required,min=2,max=100"`
	LastName   string   `json:"lastName" form:"lastName" binding:"required,min=2,max=100"`
	Email      string   `json:"email" form:"email" binding:"required,email"`
	Phone      string   `json:"phone" form:"phone" binding:"max=30"`
	StudentIDs []string `json:"studentIds" form:"studentIds"`
	Password   string   `json:"password,omitempty" form:"password" binding:"omitempty,min=8"`
}

// Child is a student as seen from the parent screens
type Child struct {
	ID        ID     `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	ClassName string `json:"className"`
	Class     *Ref   `json:"class,omitempty"`
}

func (c Child) Name() string { return FullName(c.FirstName, c.LastName) }
