package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a3tai/mcp-intake-report/internal/answers"
)

func TestDefault_Validates(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())
	assert.Len(t, c.Sections, 13)
	assert.Len(t, c.Supplements, 3)

	for i, s := range c.Sections {
		assert.Equal(t, i+1, s.Number, "core sections are numbered in order")
		assert.Empty(t, s.Sector)
	}
	for i, s := range c.Supplements {
		assert.Equal(t, SectorOrder[i], s.Sector)
	}
}

func TestCatalog_Included(t *testing.T) {
	c := Default()

	tests := []struct {
		name       string
		sectors    []string
		wantExtras []string
	}{
		{name: "no sectors", sectors: nil, wantExtras: nil},
		{name: "ai and robotics", sectors: []string{"robotics", "ai"}, wantExtras: []string{"ai", "robotics"}},
		{name: "all", sectors: []string{"defi", "robotics", "ai", "saas"}, wantExtras: []string{"ai", "defi", "robotics"}},
		{name: "non supplement sector", sectors: []string{"saas"}, wantExtras: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := answers.Record{
				"operations": answers.Section{"selected_sectors": answers.Choices(tt.sectors...)},
			}
			got := c.Included(rec)
			require.Len(t, got, 13+len(tt.wantExtras))
			for i := 0; i < 13; i++ {
				assert.Equal(t, c.Sections[i].Title, got[i].Title)
			}
			for i, sector := range tt.wantExtras {
				assert.Equal(t, sector, got[13+i].Sector)
			}
		})
	}
}

func TestTrigger_Matches(t *testing.T) {
	tests := []struct {
		name    string
		trigger Trigger
		value   answers.Value
		want    bool
	}{
		{name: "single match", trigger: When("yes"), value: answers.String("yes"), want: true},
		{name: "single mismatch", trigger: When("yes"), value: answers.String("no"), want: false},
		{name: "absent", trigger: When("yes"), value: answers.Value{}, want: false},
		{name: "set intersection", trigger: When("a", "b"), value: answers.Choices("c", "b"), want: true},
		{name: "any on empty set", trigger: WhenAny(), value: answers.Choices(), want: false},
		{name: "any on selection", trigger: WhenAny(), value: answers.Choices("breach"), want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.trigger.Matches(tt.value))
		})
	}
}

func TestValidate_RejectsBadTriggers(t *testing.T) {
	base := func(q Question) *Catalog {
		return &Catalog{
			Sections:    []SectionSpec{{Number: 1, Title: "One", Key: "one", Questions: []Question{q}}},
			SectorField: answers.FieldRef{Section: "one", Key: "sectors"},
		}
	}

	tests := []struct {
		name     string
		question Question
	}{
		{
			name: "trigger value not an option",
			question: single("Q", "q", yesNo, followUp(When("maybe"),
				text("Details", "d"))),
		},
		{
			name: "any trigger on single choice",
			question: single("Q", "q", yesNo, followUp(WhenAny(),
				text("Details", "d"))),
		},
		{
			name:     "follow-up on free text",
			question: Question{Text: "Q", Key: "q", Kind: FreeText, FollowUp: followUp(When("x"))},
		},
		{
			name:     "table without columns",
			question: table("T", TableSpec{KeyPrefix: "t", Slots: 3}),
		},
		{
			name: "nested follow-up with bad trigger",
			question: single("Q", "q", yesNo, followUp(When("yes"),
				single("Inner", "inner", yesNo, followUp(When("sometimes"), text("D", "d"))))),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, base(tt.question).Validate())
		})
	}
}

func TestValidate_DuplicateSections(t *testing.T) {
	c := &Catalog{
		Sections: []SectionSpec{
			{Number: 1, Title: "One", Key: "one"},
			{Number: 1, Title: "Two", Key: "one"},
		},
		SectorField: answers.FieldRef{Section: "one", Key: "sectors"},
	}
	err := c.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "section number 1")
	assert.Contains(t, err.Error(), "not unique")
}

func TestTableKeys(t *testing.T) {
	spec := &TableSpec{KeyPrefix: "top_client"}
	assert.Equal(t, "top_client_2_name", spec.RowKey(2, "name"))
	assert.Equal(t, "top_client_canada_percent", spec.CategoryKey("canada", "percent"))
	assert.Equal(t, MaxCellChars, spec.CellBudget())
}

func TestTitles(t *testing.T) {
	titles := Titles(Default().Sections[:2])
	assert.Equal(t, []string{"1. Applicant Information", "2. Business Operations"}, titles)
}
