package models

// Missing is the display value for an absent attribute
const Missing = "-"

// Attr is an optional scalar attribute; the empty string means absent
type Attr string

// OrDefault returns the attribute value or Missing when absent
func (a Attr) OrDefault() string {
	if a == "" {
		return Missing
	}
	return string(a)
}

// Field is one named, comparable value of a code record
type Field struct {
	Name  string
	Value any
}

// CodeRecord is a single code entry of one catalog year
type CodeRecord struct {
	Code        string         `json:"code"`
	Description string         `json:"description"`
	NonTerminal bool           `json:"non_terminal"`
	Level       string         `json:"level,omitempty"`
	Chapter     string         `json:"chapter,omitempty"`
	GroupStart  string         `json:"group_start,omitempty"`
	Notation    string         `json:"notation,omitempty"`
	ICD         *ICDAttributes `json:"icd,omitempty"`
	OPS         *OPSAttributes `json:"ops,omitempty"`
}

// ICDAttributes holds the variant A attribute block
type ICDAttributes struct {
	Kind           Attr     `json:"kind,omitempty"`
	Usage295       Attr     `json:"usage_295,omitempty"`
	Usage301       Attr     `json:"usage_301,omitempty"`
	MortalityLists []string `json:"mortality_lists,omitempty"`
	MorbidityList  Attr     `json:"morbidity_list,omitempty"`
	Sex            Attr     `json:"sex,omitempty"`
	SexErrorKind   Attr     `json:"sex_error_kind,omitempty"`
	MinAge         Attr     `json:"min_age,omitempty"`
	MaxAge         Attr     `json:"max_age,omitempty"`
	AgeErrorKind   Attr     `json:"age_error_kind,omitempty"`
	Rare           Attr     `json:"rare,omitempty"`
	Populated      Attr     `json:"populated,omitempty"`
	IfSGReport     Attr     `json:"ifsg_report,omitempty"`
	IfSGLab        Attr     `json:"ifsg_lab,omitempty"`
}

// OPSAttributes holds the variant B attribute block
type OPSAttributes struct {
	Kind       Attr `json:"kind,omitempty"`
	ThreeDigit Attr `json:"three_digit,omitempty"`
	Laterality Attr `json:"laterality,omitempty"`
	SingleUse  Attr `json:"single_use,omitempty"`
	Additional Attr `json:"additional,omitempty"`
	Validity   Attr `json:"validity,omitempty"`
}

// Fields returns the comparable fields of the record in a stable order.
// The code itself is the identity and is not part of the field set.
func (r CodeRecord) Fields() []Field {
	fields := []Field{
		{Name: "description", Value: r.Description},
		{Name: "non_terminal", Value: r.NonTerminal},
	}

	if a := r.ICD; a != nil {
		fields = append(fields,
			Field{Name: "kind", Value: a.Kind.OrDefault()},
			Field{Name: "usage_295", Value: a.Usage295.OrDefault()},
			Field{Name: "usage_301", Value: a.Usage301.OrDefault()},
			Field{Name: "mortality_lists", Value: a.MortalityLists},
			Field{Name: "morbidity_list", Value: a.MorbidityList.OrDefault()},
			Field{Name: "sex", Value: a.Sex.OrDefault()},
			Field{Name: "sex_error_kind", Value: a.SexErrorKind.OrDefault()},
			Field{Name: "min_age", Value: a.MinAge.OrDefault()},
			Field{Name: "max_age", Value: a.MaxAge.OrDefault()},
			Field{Name: "age_error_kind", Value: a.AgeErrorKind.OrDefault()},
			Field{Name: "rare", Value: a.Rare.OrDefault()},
			Field{Name: "populated", Value: a.Populated.OrDefault()},
			Field{Name: "ifsg_report", Value: a.IfSGReport.OrDefault()},
			Field{Name: "ifsg_lab", Value: a.IfSGLab.OrDefault()},
		)
	}

	if a := r.OPS; a != nil {
		fields = append(fields,
			Field{Name: "kind", Value: a.Kind.OrDefault()},
			Field{Name: "three_digit", Value: a.ThreeDigit.OrDefault()},
			Field{Name: "laterality", Value: a.Laterality.OrDefault()},
			Field{Name: "single_use", Value: a.SingleUse.OrDefault()},
			Field{Name: "additional", Value: a.Additional.OrDefault()},
			Field{Name: "validity", Value: a.Validity.OrDefault()},
		)
	}

	return fields
}

// ChapterRecord is a top-level classification grouping
type ChapterRecord struct {
	ID          string `json:"id"`
	Description string `json:"description"`
}

// GroupRecord is a range-based grouping inside one chapter
type GroupRecord struct {
	Start       string `json:"start"`
	End         string `json:"end"`
	Chapter     string `json:"chapter"`
	Description string `json:"description"`
}

// Contains reports whether base lies inside [Start, End]
func (g GroupRecord) Contains(base string) bool {
	return base >= g.Start && base <= g.End
}

// ThreeDigitRecord is the intermediate grouping level of variant B
type ThreeDigitRecord struct {
	Code        string `json:"code"`
	Description string `json:"description"`
	Chapter     string `json:"chapter"`
	Group       string `json:"group"`
}
