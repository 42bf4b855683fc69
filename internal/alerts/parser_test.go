package alerts

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const header = "id,severity,title,message,date"

func sheet(rows ...string) string {
	return strings.Join(append([]string{header}, rows...), "\n")
}

func TestParse_EmptyInputs(t *testing.T) {
	for name, input := range map[string]string{
		"empty":                "",
		"whitespace":           " \n\t\n",
		"header only":          header,
		"header with newline":  header + "\n",
		"header with CRLF":     header + "\r\n",
		"header and blank row": header + "\n\n   \n",
	} {
		t.Run(name, func(t *testing.T) {
			got := Parse(input)
			require.NotNil(t, got)
			assert.Empty(t, got)
		})
	}
}

func TestParse_MixedSeverities(t *testing.T) {
	got := Parse(sheet(
		"1,Critical,A,msg,Jan 1",
		"2,Info,B,msg,Jan 2",
		"3,Warning,C,msg,Jan 3",
	))

	want := []Alert{
		{ID: 1, Severity: SeverityCritical, Title: "A", Message: "msg", Date: "Jan 1"},
		{ID: 2, Severity: SeverityInfo, Title: "B", Message: "msg", Date: "Jan 2"},
		{ID: 3, Severity: SeverityWarning, Title: "C", Message: "msg", Date: "Jan 3"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_MissingHeaders(t *testing.T) {
	for _, missing := range RequiredHeaders {
		t.Run(missing, func(t *testing.T) {
			var cols []string
			for _, h := range RequiredHeaders {
				if h != missing {
					cols = append(cols, h)
				}
			}
			input := strings.Join(cols, ",") + "\n1,Critical,A,msg,Jan 1"

			got, report := ParseReport(input)
			assert.Empty(t, got)
			assert.Equal(t, []string{missing}, report.MissingHeaders)
			assert.False(t, report.SchemaValid())
			assert.True(t, errors.Is(report.Err(), ErrSchemaInvalid))
			assert.Contains(t, report.Err().Error(), missing)
		})
	}
}

func TestParse_HeaderMatchIsCaseSensitive(t *testing.T) {
	got, report := ParseReport("ID,severity,title,message,date\n1,Info,A,msg,Jan 1")
	assert.Empty(t, got)
	assert.Equal(t, []string{"id"}, report.MissingHeaders)
}

func TestParse_ColumnsInAnyOrder(t *testing.T) {
	got := Parse(" date , message,title ,severity,id\nJan 9,Buses late,Transport,Warning,9")
	want := []Alert{{ID: 9, Severity: SeverityWarning, Title: "Transport", Message: "Buses late", Date: "Jan 9"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_NonNumericIDDropsOnlyThatRow(t *testing.T) {
	got, report := ParseReport(sheet(
		"1,Info,A,msg,Jan 1",
		"abc,Critical,B,msg,Jan 2",
		",Critical,C,msg,Jan 3",
		"4,Warning,D,msg,Jan 4",
	))

	ids := make([]int, 0, len(got))
	for _, a := range got {
		ids = append(ids, a.ID)
	}
	assert.Equal(t, []int{1, 4}, ids)
	assert.Equal(t, []int{3, 4}, report.DroppedRows)
	assert.Equal(t, 4, report.Rows)
}

func TestParse_ShortRowDropped(t *testing.T) {
	got, report := ParseReport(sheet(
		"1,Critical,A,msg",
		"2,Info,B,msg,Jan 2",
	))
	require.Len(t, got, 1)
	assert.Equal(t, 2, got[0].ID)
	assert.Equal(t, []int{2}, report.DroppedRows)
}

func TestParse_UnrecognizedSeverityFallsBackToInfo(t *testing.T) {
	for _, sev := range []string{"Urgent", "critical", "WARNING", "", "  "} {
		got := Parse(sheet("5," + sev + ",D,msg,Jan 5"))
		require.Len(t, got, 1, sev)
		assert.Equal(t, SeverityInfo, got[0].Severity, sev)
		assert.Equal(t, 5, got[0].ID)
	}
}

func TestParse_TrimsAndAllowsEmptyText(t *testing.T) {
	got := Parse(sheet(" 7 , Critical ,  ,  , "))
	want := []Alert{{ID: 7, Severity: SeverityCritical}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_LeadingBOM(t *testing.T) {
	got, report := ParseReport("\ufeff" + sheet("1,Critical,A,msg,Jan 1"))
	assert.True(t, report.SchemaValid())
	assert.Empty(t, report.MissingHeaders)
	want := []Alert{{ID: 1, Severity: SeverityCritical, Title: "A", Message: "msg", Date: "Jan 1"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ParseReport() mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_CRLFAndExtraColumns(t *testing.T) {
	input := "id,severity,title,message,date,owner\r\n1,Warning,Snow,Delay,Feb 2,ops\r\n2,Info,Bake sale,Friday,Feb 3\r\n"
	got := Parse(input)
	require.Len(t, got, 2)
	assert.Equal(t, "Feb 2", got[0].Date)
	assert.Equal(t, "Feb 3", got[1].Date)
}

func TestParse_DuplicateIDsKept(t *testing.T) {
	got := Parse(sheet("1,Info,A,msg,Jan 1", "1,Critical,B,msg,Jan 2"))
	require.Len(t, got, 2)
	assert.Equal(t, "A", got[0].Title)
	assert.Equal(t, "B", got[1].Title)
}

func TestParse_Idempotent(t *testing.T) {
	input := sheet("1,Critical,A,msg,Jan 1", "x,Info,B,msg,Jan 2", "3,Odd,C,msg,Jan 3")
	if diff := cmp.Diff(Parse(input), Parse(input)); diff != "" {
		t.Errorf("Parse() not idempotent (-first +second):\n%s", diff)
	}
}

func TestParseLeadingInt(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"12", 12, true},
		{" 7 ", 7, true},
		{"-3", -3, true},
		{"+4", 4, true},
		{"12a", 12, true},
		{"", 0, false},
		{"abc", 0, false},
		{"a12", 0, false},
		{"-", 0, false},
		{"99999999999999999999999", 0, false},
	}
	for _, tt := range tests {
		got, ok := parseLeadingInt(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestParseSeverity(t *testing.T) {
	assert.Equal(t, SeverityCritical, ParseSeverity("Critical"))
	assert.Equal(t, SeverityWarning, ParseSeverity("Warning"))
	assert.Equal(t, SeverityInfo, ParseSeverity("Info"))
	assert.Equal(t, SeverityInfo, ParseSeverity("Urgent"))
}
