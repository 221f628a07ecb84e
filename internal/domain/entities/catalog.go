package entities

// Lab represents one of the diagnostic laboratory chains. The slug is the
// external-facing identifier used in URLs and chart legends.
type Lab struct {
	ID         int64   `json:"id" db:"id"`
	Name       string  `json:"name" db:"name"`
	Slug       string  `json:"slug" db:"slug"`
	WebsiteURL *string `json:"website_url,omitempty" db:"website_url"`
}

// City represents a city served by at least one lab location
type City struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

// LabLocation represents one collection centre of a lab in a city.
// Pricing is location-scoped.
type LabLocation struct {
	ID     int64 `json:"id" db:"id"`
	LabID  int64 `json:"lab_id" db:"lab_id"`
	CityID int64 `json:"city_id" db:"city_id"`
}

// Department is an entry of the canonical department taxonomy
type Department struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

// CanonicalTest is the deduplicated, cross-lab identity of a diagnostic
// test. DepartmentID is frequently unpopulated upstream; the department is
// derived at query time from raw per-offering labels instead.
type CanonicalTest struct {
	ID           int64         `json:"id" db:"id"`
	Name         string        `json:"name" db:"name"`
	Slug         string        `json:"slug" db:"slug"`
	DepartmentID *int64        `json:"department_id,omitempty" db:"department_id"`
	TestType     *string       `json:"test_type,omitempty" db:"test_type"`
	Keywords     []string      `json:"keywords,omitempty" db:"keywords"`
	IsPopular    bool          `json:"is_popular" db:"is_popular"`
	Department   DepartmentRef `json:"-"`
}

// DepartmentName returns the joined department name, or nil when the test
// has no department relation.
func (t *CanonicalTest) DepartmentName() *string {
	if d := t.Department.First(); d != nil {
		return &d.Name
	}
	return nil
}
