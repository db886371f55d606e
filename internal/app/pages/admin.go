package pages

import (
	"strconv"
	"strings"

	"github.com/yigit/schoolportal/internal/apiclient"
	"github.com/yigit/schoolportal/internal/app/models"
	"github.com/yigit/schoolportal/internal/app/views"
)

// Cache keys of the school admin collections. Option loaders share them
// so a write refreshes every select that lists the collection.
const (
	keyUsers          = "admin/users"
	keySchools        = "admin/schools"
	keyDepartments    = "school-admin/departments"
	keyAcademicLevels = "school-admin/academic-levels"
	keySubjects       = "school-admin/subjects"
	keyClasses        = "school-admin/classes"
	keyClassSubjects  = "school-admin/class-subjects"
	keyTeachers       = "school-admin/teachers"
	keyStudents       = "school-admin/students"
	keyParents        = "school-admin/parents"
)

// refOr shows the embedded entity's name, else the raw id
func refOr(ref *models.Ref, id models.ID) string {
	if ref != nil && strings.TrimSpace(ref.Name) != "" {
		return ref.Name
	}
	return models.Display(id.String())
}

func itoa(n int) string {
	if n == 0 {
		return ""
	}
	return strconv.Itoa(n)
}

var (
	schoolOptions = listOptions(keySchools, (*apiclient.API).ListSchools, func(s models.School) views.Option {
		return views.Option{Value: s.ID.String(), Label: s.Name}
	})
	departmentOptions = listOptions(keyDepartments, (*apiclient.API).ListDepartments, func(d models.Department) views.Option {
		return views.Option{Value: d.ID.String(), Label: d.Name}
	})
	levelOptions = listOptions(keyAcademicLevels, (*apiclient.API).ListAcademicLevels, func(l models.AcademicLevel) views.Option {
		return views.Option{Value: l.ID.String(), Label: l.Name}
	})
	subjectOptions = listOptions(keySubjects, (*apiclient.API).ListSubjects, func(s models.Subject) views.Option {
		return views.Option{Value: s.ID.String(), Label: s.Name}
	})
	classOptions = listOptions(keyClasses, (*apiclient.API).ListClasses, func(cl models.Class) views.Option {
		return views.Option{Value: cl.ID.String(), Label: cl.Name}
	})
	teacherOptions = listOptions(keyTeachers, (*apiclient.API).ListTeachers, func(t models.Teacher) views.Option {
		return views.Option{Value: t.ID.String(), Label: t.Name()}
	})
	studentOptions = listOptions(keyStudents, (*apiclient.API).ListStudents, func(s models.Student) views.Option {
		return views.Option{Value: s.ID.String(), Label: s.Name()}
	})
	roleOptions = func() OptionLoader {
		opts := make([]views.Option, 0, len(models.RolePriority))
		for _, r := range models.RolePriority {
			opts = append(opts, views.Option{Value: string(r), Label: r.Label()})
		}
		return staticOptions(opts...)
	}()
)

func (r *Renderer) users() *Resource[models.User, models.CreateUserRequest] {
	return &Resource[models.User, models.CreateUserRequest]{
		Key:      keyUsers,
		Title:    "Users",
		Singular: "user",
		ID:       func(u models.User) string { return u.ID.String() },
		Columns: []Column[models.User]{
			{Header: "Name", Value: models.User.Name},
			{Header: "Email", Value: func(u models.User) string { return u.Email }},
			{Header: "Roles", Value: func(u models.User) string {
				labels := make([]string, len(u.Roles))
				for i, role := range u.Roles {
					labels[i] = role.Label()
				}
				return strings.Join(labels, ", ")
			}},
			{Header: "School", Value: func(u models.User) string { return u.SchoolID.String() }},
		},
		Fields: []Field{
			{Name: "firstName", Label: "First name", Required: true},
			{Name: "lastName", Label: "Last name", Required: true},
			{Name: "email", Label: "Email", Type: TypeEmail, Required: true},
			{Name: "password", Label: "Password", Type: TypePassword, Help: "At least 8 characters. Leave blank to keep the current password."},
			{Name: "role", Label: "Role", Type: TypeSelect, Required: true, Options: roleOptions},
			{Name: "schoolId", Label: "School", Type: TypeSelect, Options: schoolOptions},
		},
		List:   (*apiclient.API).ListUsers,
		Create: (*apiclient.API).CreateUser,
		Update: (*apiclient.API).UpdateUser,
		Delete: (*apiclient.API).DeleteUser,
		ToForm: func(u models.User) models.CreateUserRequest {
			form := models.CreateUserRequest{FirstName: u.FirstName, LastName: u.LastName, Email: u.Email, SchoolID: u.SchoolID.String()}
			if len(u.Roles) > 0 {
				form.Role = string(u.Roles[0])
			}
			return form
		},
		r: r,
	}
}

func (r *Renderer) schools() *Resource[models.School, models.SchoolRequest] {
	return &Resource[models.School, models.SchoolRequest]{
		Key:      keySchools,
		Title:    "Schools",
		Singular: "school",
		ID:       func(s models.School) string { return s.ID.String() },
		Columns: []Column[models.School]{
			{Header: "Name", Value: func(s models.School) string { return s.Name }},
			{Header: "Address", Value: func(s models.School) string { return s.Address }},
			{Header: "Phone", Value: func(s models.School) string { return s.Phone }},
			{Header: "Email", Value: func(s models.School) string { return s.Email }},
		},
		Fields: []Field{
			{Name: "name", Label: "Name", Required: true},
			{Name: "address", Label: "Address", Type: TypeTextarea},
			{Name: "phone", Label: "Phone"},
			{Name: "email", Label: "Email", Type: TypeEmail},
		},
		List:   (*apiclient.API).ListSchools,
		Create: (*apiclient.API).CreateSchool,
		Update: (*apiclient.API).UpdateSchool,
		Delete: (*apiclient.API).DeleteSchool,
		ToForm: func(s models.School) models.SchoolRequest {
			return models.SchoolRequest{Name: s.Name, Address: s.Address, Phone: s.Phone, Email: s.Email}
		},
		r: r,
	}
}

func (r *Renderer) departments() *Resource[models.Department, models.DepartmentRequest] {
	return &Resource[models.Department, models.DepartmentRequest]{
		Key:      keyDepartments,
		Title:    "Departments",
		Singular: "department",
		ID:       func(d models.Department) string { return d.ID.String() },
		Columns: []Column[models.Department]{
			{Header: "Name", Value: func(d models.Department) string { return d.Name }},
			{Header: "Code", Value: func(d models.Department) string { return d.Code }},
			{Header: "Description", Value: func(d models.Department) string { return d.Description }},
		},
		Fields: []Field{
			{Name: "name", Label: "Name", Required: true},
			{Name: "code", Label: "Code"},
			{Name: "description", Label: "Description", Type: TypeTextarea},
		},
		List:   (*apiclient.API).ListDepartments,
		Create: (*apiclient.API).CreateDepartment,
		Update: (*apiclient.API).UpdateDepartment,
		Delete: (*apiclient.API).DeleteDepartment,
		ToForm: func(d models.Department) models.DepartmentRequest {
			return models.DepartmentRequest{Name: d.Name, Code: d.Code, Description: d.Description}
		},
		Invalidates: []string{keySubjects, keyTeachers},
		r:           r,
	}
}

func (r *Renderer) academicLevels() *Resource[models.AcademicLevel, models.AcademicLevelRequest] {
	return &Resource[models.AcademicLevel, models.AcademicLevelRequest]{
		Key:      keyAcademicLevels,
		Title:    "Academic Levels",
		Singular: "academic level",
		ID:       func(l models.AcademicLevel) string { return l.ID.String() },
		Columns: []Column[models.AcademicLevel]{
			{Header: "Name", Value: func(l models.AcademicLevel) string { return l.Name }},
			{Header: "Order", Value: func(l models.AcademicLevel) string { return strconv.Itoa(l.Order) }},
			{Header: "Description", Value: func(l models.AcademicLevel) string { return l.Description }},
		},
		Fields: []Field{
			{Name: "name", Label: "Name", Required: true},
			{Name: "order", Label: "Order", Type: TypeNumber, Help: "Position among the levels, lowest first"},
			{Name: "description", Label: "Description", Type: TypeTextarea},
		},
		List:   (*apiclient.API).ListAcademicLevels,
		Create: (*apiclient.API).CreateAcademicLevel,
		Update: (*apiclient.API).UpdateAcademicLevel,
		Delete: (*apiclient.API).DeleteAcademicLevel,
		ToForm: func(l models.AcademicLevel) models.AcademicLevelRequest {
			return models.AcademicLevelRequest{Name: l.Name, Description: l.Description, Order: l.Order}
		},
		Invalidates: []string{keyClasses},
		r:           r,
	}
}

func (r *Renderer) subjects() *Resource[models.Subject, models.SubjectRequest] {
	return &Resource[models.Subject, models.SubjectRequest]{
		Key:      keySubjects,
		Title:    "Subjects",
		Singular: "subject",
		ID:       func(s models.Subject) string { return s.ID.String() },
		Columns: []Column[models.Subject]{
			{Header: "Name", Value: func(s models.Subject) string { return s.Name }},
			{Header: "Code", Value: func(s models.Subject) string { return s.Code }},
			{Header: "Department", Value: func(s models.Subject) string { return refOr(s.Department, s.DepartmentID) }},
			{Header: "Description", Value: func(s models.Subject) string { return s.Description }},
		},
		Fields: []Field{
			{Name: "name", Label: "Name", Required: true},
			{Name: "code", Label: "Code"},
			{Name: "departmentId", Label: "Department", Type: TypeSelect, Options: departmentOptions},
			{Name: "description", Label: "Description", Type: TypeTextarea},
		},
		List:   (*apiclient.API).ListSubjects,
		Create: (*apiclient.API).CreateSubject,
		Update: (*apiclient.API).UpdateSubject,
		Delete: (*apiclient.API).DeleteSubject,
		ToForm: func(s models.Subject) models.SubjectRequest {
			return models.SubjectRequest{Name: s.Name, Code: s.Code, Description: s.Description, DepartmentID: s.DepartmentID.String()}
		},
		Invalidates: []string{keyClassSubjects},
		r:           r,
	}
}

func (r *Renderer) classes() *Resource[models.Class, models.ClassRequest] {
	return &Resource[models.Class, models.ClassRequest]{
		Key:      keyClasses,
		Title:    "Classes",
		Singular: "class",
		ID:       func(cl models.Class) string { return cl.ID.String() },
		Columns: []Column[models.Class]{
			{Header: "Name", Value: func(cl models.Class) string { return cl.Name }},
			{Header: "Academic level", Value: func(cl models.Class) string { return refOr(cl.AcademicLevel, cl.AcademicLevelID) }},
			{Header: "Academic year", Value: func(cl models.Class) string { return cl.AcademicYear }},
			{Header: "Capacity", Value: func(cl models.Class) string { return itoa(cl.Capacity) }},
		},
		Fields: []Field{
			{Name: "name", Label: "Name", Required: true, Placeholder: "7A"},
			{Name: "academicLevelId", Label: "Academic level", Type: TypeSelect, Required: true, Options: levelOptions},
			{Name: "academicYear", Label: "Academic year", Placeholder: "2025/2026"},
			{Name: "teacherId", Label: "Class teacher", Type: TypeSelect, Options: teacherOptions},
			{Name: "capacity", Label: "Capacity", Type: TypeNumber},
		},
		List:   (*apiclient.API).ListClasses,
		Create: (*apiclient.API).CreateClass,
		Update: (*apiclient.API).UpdateClass,
		Delete: (*apiclient.API).DeleteClass,
		ToForm: func(cl models.Class) models.ClassRequest {
			return models.ClassRequest{
				Name:            cl.Name,
				AcademicLevelID: cl.AcademicLevelID.String(),
				AcademicYear:    cl.AcademicYear,
				TeacherID:       cl.TeacherID.String(),
				Capacity:        cl.Capacity,
			}
		},
		Invalidates: []string{keyClassSubjects, keyStudents},
		r:           r,
	}
}

func (r *Renderer) classSubjects() *Resource[models.ClassSubject, models.ClassSubjectRequest] {
	return &Resource[models.ClassSubject, models.ClassSubjectRequest]{
		Key:      keyClassSubjects,
		Title:    "Class Subjects",
		Singular: "class subject",
		Subtitle: "Which teacher teaches which subject to which class",
		ID:       func(cs models.ClassSubject) string { return cs.ID.String() },
		Columns: []Column[models.ClassSubject]{
			{Header: "Class", Value: func(cs models.ClassSubject) string { return refOr(cs.Class, cs.ClassID) }},
			{Header: "Subject", Value: func(cs models.ClassSubject) string { return refOr(cs.Subject, cs.SubjectID) }},
			{Header: "Teacher", Value: func(cs models.ClassSubject) string { return refOr(cs.Teacher, cs.TeacherID) }},
		},
		Fields: []Field{
			{Name: "classId", Label: "Class", Type: TypeSelect, Required: true, Options: classOptions},
			{Name: "subjectId", Label: "Subject", Type: TypeSelect, Required: true, Options: subjectOptions},
			{Name: "teacherId", Label: "Teacher", Type: TypeSelect, Required: true, Options: teacherOptions},
		},
		List:   (*apiclient.API).ListClassSubjects,
		Create: (*apiclient.API).AssignClassSubject,
		Delete: (*apiclient.API).UnassignClassSubject,
		r:      r,
	}
}

func (r *Renderer) teachers() *Resource[models.Teacher, models.TeacherRequest] {
	return &Resource[models.Teacher, models.TeacherRequest]{
		Key:      keyTeachers,
		Title:    "Teachers",
		Singular: "teacher",
		ID:       func(t models.Teacher) string { return t.ID.String() },
		Columns: []Column[models.Teacher]{
			{Header: "Name", Value: models.Teacher.Name},
			{Header: "Email", Value: func(t models.Teacher) string { return t.Email }},
			{Header: "Phone", Value: func(t models.Teacher) string { return t.Phone }},
			{Header: "Department", Value: func(t models.Teacher) string { return refOr(t.Department, t.DepartmentID) }},
			{Header: "Qualification", Value: func(t models.Teacher) string { return t.Qualification }},
		},
		Fields: []Field{
			{Name: "firstName", Label: "First name", Required: true},
			{Name: "lastName", Label: "Last name", Required: true},
			{Name: "email", Label: "Email", Type: TypeEmail, Required: true},
			{Name: "phone", Label: "Phone"},
			{Name: "departmentId", Label: "Department", Type: TypeSelect, Options: departmentOptions},
			{Name: "qualification", Label: "Qualification"},
			{Name: "password", Label: "Initial password", Type: TypePassword, CreateOnly: true, Help: "Optional. The backend generates one when left blank."},
		},
		List:   (*apiclient.API).ListTeachers,
		Create: (*apiclient.API).CreateTeacher,
		Update: (*apiclient.API).UpdateTeacher,
		Delete: (*apiclient.API).DeleteTeacher,
		ToForm: func(t models.Teacher) models.TeacherRequest {
			return models.TeacherRequest{
				FirstName:     t.FirstName,
				LastName:      t.LastName,
				Email:         t.Email,
				Phone:         t.Phone,
				DepartmentID:  t.DepartmentID.String(),
				Qualification: t.Qualification,
			}
		},
		Invalidates: []string{keyClassSubjects, keyClasses},
		r:           r,
	}
}

func (r *Renderer) students() *Resource[models.Student, models.StudentRequest] {
	return &Resource[models.Student, models.StudentRequest]{
		Key:      keyStudents,
		Title:    "Students",
		Singular: "student",
		ID:       func(s models.Student) string { return s.ID.String() },
		Columns: []Column[models.Student]{
			{Header: "Name", Value: models.Student.Name},
			{Header: "Email", Value: func(s models.Student) string { return s.Email }},
			{Header: "Student number", Value: func(s models.Student) string { return s.StudentNumber }},
			{Header: "Class", Value: func(s models.Student) string { return refOr(s.Class, s.ClassID) }},
			{Header: "Date of birth", Value: func(s models.Student) string { return s.DateOfBirth }},
		},
		Fields: []Field{
			{Name: "firstName", Label: "First name", Required: true},
			{Name: "lastName", Label: "Last name", Required: true},
			{Name: "email", Label: "Email", Type: TypeEmail, Required: true},
			{Name: "studentNumber", Label: "Student number"},
			{Name: "classId", Label: "Class", Type: TypeSelect, Options: classOptions},
			{Name: "dateOfBirth", Label: "Date of birth", Type: TypeDate},
			{Name: "password", Label: "Initial password", Type: TypePassword, CreateOnly: true, Help: "Optional. The backend generates one when left blank."},
		},
		List:   (*apiclient.API).ListStudents,
		Create: (*apiclient.API).CreateStudent,
		Update: (*apiclient.API).UpdateStudent,
		Delete: (*apiclient.API).DeleteStudent,
		ToForm: func(s models.Student) models.StudentRequest {
			return models.StudentRequest{
				FirstName:     s.FirstName,
				LastName:      s.LastName,
				Email:         s.Email,
				StudentNumber: s.StudentNumber,
				ClassID:       s.ClassID.String(),
				DateOfBirth:   s.DateOfBirth,
			}
		},
		Toolbar: func(base string) []views.Link {
			return []views.Link{{Label: "Import", Href: base + "/import"}}
		},
		Invalidates: []string{keyParents},
		r:           r,
	}
}

func (r *Renderer) parents() *Resource[models.Parent, models.ParentRequest] {
	return &Resource[models.Parent, models.ParentRequest]{
		Key:      keyParents,
		Title:    "Parents",
		Singular: "parent",
		ID:       func(p models.Parent) string { return p.ID.String() },
		Columns: []Column[models.Parent]{
			{Header: "Name", Value: models.Parent.Name},
			{Header: "Email", Value: func(p models.Parent) string { return p.Email }},
			{Header: "Phone", Value: func(p models.Parent) string { return p.Phone }},
			{Header: "Children", Value: func(p models.Parent) string {
				if len(p.Children) > 0 {
					names := make([]string, len(p.Children))
					for i, child := range p.Children {
						names[i] = models.Display(child.Name)
					}
					return strings.Join(names, ", ")
				}
				return itoa(len(p.StudentIDs))
			}},
		},
		Fields: []Field{
			{Name: "firstName", Label: "First name", Required: true},
			{Name: "lastName", Label: "Last name", Required: true},
			{Name: "email", Label: "Email", Type: TypeEmail, Required: true},
			{Name: "phone", Label: "Phone"},
			{Name: "studentIds", Label: "Children", Type: TypeMultiSelect, Options: studentOptions, Help: "Hold Ctrl or Cmd to select several"},
			{Name: "password", Label: "Initial password", Type: TypePassword, CreateOnly: true, Help: "Optional. The backend generates one when left blank."},
		},
		List:   (*apiclient.API).ListParents,
		Create: (*apiclient.API).CreateParent,
		Update: (*apiclient.API).UpdateParent,
		Delete: (*apiclient.API).DeleteParent,
		ToForm: func(p models.Parent) models.ParentRequest {
			ids := make([]string, len(p.StudentIDs))
			for i, id := range p.StudentIDs {
				ids[i] = id.String()
			}
			if len(ids) == 0 {
				for _, child := range p.Children {
					ids = append(ids, child.ID.String())
				}
			}
			return models.ParentRequest{FirstName: p.FirstName, LastName: p.LastName, Email: p.Email, Phone: p.Phone, StudentIDs: ids}
		},
		r: r,
	}
}
