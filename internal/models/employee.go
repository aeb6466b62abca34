package models

// Employee represents an employee entity.
type Employee struct {
	ID         string  `json:"id"`
	FullName   string  `json:"fullName"`
	Avatar     string  `json:"avatar"`
	Department string  `json:"department"`
	BirthDate  string  `json:"birthDate"`
	Salary     float64 `json:"salary"`
}

// CreatePayload is the body accepted when an employee is created or restored from a snapshot.
type CreatePayload struct {
	ID         *string `json:"id"         validate:"omitnil,min=1"`
	FullName   string  `json:"fullName"   validate:"required"`
	Avatar     string  `json:"avatar"     validate:"avatar"`
	Department string  `json:"department" validate:"required"`
	BirthDate  string  `json:"birthDate"  validate:"birthdate"`
	Salary     *Amount `json:"salary"     validate:"required,gte=0,finite"`
}

// UpdatePayload holds a partial employee. Nil fields are left untouched on merge.
type UpdatePayload struct {
	ID         *string `json:"id"         validate:"omitnil,min=1"`
	FullName   *string `json:"fullName"   validate:"omitnil,min=1"`
	Avatar     *string `json:"avatar"     validate:"omitnil,avatar"`
	Department *string `json:"department" validate:"omitnil,min=1"`
	BirthDate  *string `json:"birthDate"  validate:"omitnil,birthdate"`
	Salary     *Amount `json:"salary"     validate:"omitnil,gte=0,finite"`
}

// Employee converts a validated payload into an entity. The id stays empty when it was not supplied.
func (p CreatePayload) Employee() Employee {
	employee := Employee{
		FullName:   p.FullName,
		Avatar:     p.Avatar,
		Department: p.Department,
		BirthDate:  p.BirthDate,
	}
	if p.ID != nil {
		employee.ID = *p.ID
	}
	if p.Salary != nil {
		employee.Salary = float64(*p.Salary)
	}

	return employee
}

// Apply merges the present fields of the patch into the employee. The id is never changed.
func (e *Employee) Apply(patch UpdatePayload) {
	if patch.FullName != nil {
		e.FullName = *patch.FullName
	}
	if patch.Avatar != nil {
		e.Avatar = *patch.Avatar
	}
	if patch.Department != nil {
		e.Department = *patch.Department
	}
	if patch.BirthDate != nil {
		e.BirthDate = *patch.BirthDate
	}
	if patch.Salary != nil {
		e.Salary = float64(*patch.Salary)
	}
}
