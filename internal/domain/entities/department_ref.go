package entities

// DepartmentRef is the department side of a test join. Depending on the
// query shape the store hands back either a single related record or a list
// of records; DepartmentRef keeps that as an explicit tagged union instead
// of shape-sniffing at every call site.
type DepartmentRef struct {
	one  *Department
	many []Department
}

// OneDepartment wraps a single joined department record (possibly nil)
func OneDepartment(d *Department) DepartmentRef {
	return DepartmentRef{one: d}
}

// ManyDepartments wraps a joined department list
func ManyDepartments(ds []Department) DepartmentRef {
	return DepartmentRef{many: ds}
}

// First returns the first related department record, or nil when the join
// produced nothing. The accessor is deterministic for both union arms.
func (r DepartmentRef) First() *Department {
	if r.one != nil {
		return r.one
	}
	if len(r.many) > 0 {
		return &r.many[0]
	}
	return nil
}
