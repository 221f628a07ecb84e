package entities

// TestOffering is one lab's priced instance of a test at one location (a
// row of the lab_tests fact table). CanonicalTestID is nil for offerings
// the matcher could not link; those are excluded from every aggregate.
type TestOffering struct {
	ID              int64    `json:"id" db:"id"`
	CanonicalTestID *int64   `json:"canonical_test_id,omitempty" db:"canonical_test_id"`
	LabID           int64    `json:"lab_id" db:"lab_id"`
	LabLocationID   int64    `json:"lab_location_id" db:"lab_location_id"`
	Price           float64  `json:"price" db:"price"`
	MRP             *float64 `json:"mrp,omitempty" db:"mrp"`
	IsActive        bool     `json:"is_active" db:"is_active"`
	DepartmentRaw   string   `json:"department_raw" db:"department_raw"`
	TATHours        *int     `json:"tat_hours,omitempty" db:"tat_hours"`
	HomeCollection  *bool    `json:"home_collection,omitempty" db:"home_collection"`
	NABLAccredited  *bool    `json:"nabl_accredited,omitempty" db:"nabl_accredited"`
	Methodology     *string  `json:"methodology,omitempty" db:"methodology"`
	SampleType      *string  `json:"sample_type,omitempty" db:"sample_type"`
}

// TestComparisonRow is one row of the precomputed test_comparison view:
// an offering joined with lab, test and department names for direct
// side-by-side display.
type TestComparisonRow struct {
	CanonicalTestID int64    `json:"canonical_test_id" db:"canonical_test_id"`
	TestName        string   `json:"test_name" db:"test_name"`
	TestType        *string  `json:"test_type,omitempty" db:"test_type"`
	Department      *string  `json:"department,omitempty" db:"department"`
	City            *string  `json:"city,omitempty" db:"city"`
	LabName         string   `json:"lab_name" db:"lab_name"`
	LabSlug         string   `json:"lab_slug" db:"lab_slug"`
	Price           *float64 `json:"price,omitempty" db:"price"`
	MRP             *float64 `json:"mrp,omitempty" db:"mrp"`
	DiscountPct     *float64 `json:"discount_pct,omitempty" db:"discount_pct"`
	TATHours        *int     `json:"tat_hours,omitempty" db:"tat_hours"`
	TATText         *string  `json:"tat_text,omitempty" db:"tat_text"`
	HomeCollection  *bool    `json:"home_collection,omitempty" db:"home_collection"`
	NABLAccredited  *bool    `json:"nabl_accredited,omitempty" db:"nabl_accredited"`
	MatchConfidence *float64 `json:"match_confidence,omitempty" db:"match_confidence"`
	Methodology     *string  `json:"methodology,omitempty" db:"methodology"`
	SampleType      *string  `json:"sample_type,omitempty" db:"sample_type"`
}
