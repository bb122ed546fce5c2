package extract

import (
	"os"
	"testing"
)

// makeRow builds a sparse row where only the given column indexes are filled.
func makeRow(width int, cells map[int]string) []string {
	row := make([]string, width)
	for i, v := range cells {
		row[i] = v
	}
	return row
}

func TestRecords_ExtractsEventRows(t *testing.T) {
	t.Parallel()

	rules := DefaultRules()
	rows := [][]string{
		makeRow(16, map[int]string{0: "스텔라피부과 7월 예약"}),
		makeRow(16, map[int]string{4: "김민지", 6: "010-1234-5678", 14: "25-07-24(목) 11:00"}),
		makeRow(16, map[int]string{4: "이서연", 14: "2025-08-01 09:30"}),
	}

	records := Records(rows, rules)
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}

	first := records[0]
	if first.Name != "김민지" {
		t.Fatalf("unexpected name %q", first.Name)
	}
	if first.Phone != "010-1234-5678" {
		t.Fatalf("unexpected phone %q", first.Phone)
	}
	if first.Hospital != "스텔라피부과 7월 예약" {
		t.Fatalf("unexpected hospital %q", first.Hospital)
	}
	if got := first.DateTime.DateString(); got != "2025-07-24" {
		t.Fatalf("unexpected date %q", got)
	}
	if got := first.DateTime.TimeString(); got != "11:00" {
		t.Fatalf("unexpected time %q", got)
	}

	if records[1].Phone != "" {
		t.Fatalf("expected absent phone, got %q", records[1].Phone)
	}
	if records[1].Hospital != "스텔라피부과 7월 예약" {
		t.Fatalf("heading should carry forward, got %q", records[1].Hospital)
	}
}

func TestRecords_SkipsIncompleteRows(t *testing.T) {
	t.Parallel()

	configs := []Rules{
		DefaultRules(),
		{NameColumn: 0, DateColumn: 1},
		{NameColumn: 2, DateColumn: 0},
	}

	for _, rules := range configs {
		rules.Normalize()

		blankName := make([]string, 16)
		blankName[rules.DateColumn] = "2025-07-24 11:00"

		blankDate := make([]string, 16)
		blankDate[rules.NameColumn] = "김민지"

		badDate := make([]string, 16)
		badDate[rules.NameColumn] = "김민지"
		badDate[rules.DateColumn] = "상담 후 확정"

		rows := [][]string{blankName, blankDate, badDate, nil, {}}
		if records := Records(rows, rules); len(records) != 0 {
			t.Fatalf("rules %+v: expected no records, got %d", rules, len(records))
		}
	}
}

func TestRecords_HeadingSwitchesBetweenBlocks(t *testing.T) {
	t.Parallel()

	rules := Rules{NameColumn: 0, DateColumn: 1}
	rules.Normalize()

	rows := [][]string{
		{"라비앙성형외과"},
		{"김민지", "2025-07-01 10:00"},
		{"황금피부과"},
		{"이서연", "2025-07-02 11:00"},
	}

	records := Records(rows, rules)
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Hospital != "라비앙성형외과" {
		t.Fatalf("unexpected first hospital %q", records[0].Hospital)
	}
	if records[1].Hospital != "황금피부과" {
		t.Fatalf("unexpected second hospital %q", records[1].Hospital)
	}
}

func TestFindPhone_GroupLengths(t *testing.T) {
	t.Parallel()

	cases := []struct {
		cell string
		want string
	}{
		{"010-1234-5678", "010-1234-5678"},
		{"연락처: 010-1234-5678 (본인)", "010-1234-5678"},
		{"12-34-567", ""},
		{"010-123-5678", ""},
		{"0101-1234-5678", ""},
		{"", ""},
	}

	for _, tc := range cases {
		if got := findPhone([]string{tc.cell}); got != tc.want {
			t.Fatalf("findPhone(%q) = %q, want %q", tc.cell, got, tc.want)
		}
	}
}

func TestColumnLabel(t *testing.T) {
	t.Parallel()

	cases := map[int]string{0: "A", 4: "E", 14: "O", 25: "Z", 26: "AA", 27: "AB"}
	for index, want := range cases {
		if got := ColumnLabel(index); got != want {
			t.Fatalf("ColumnLabel(%d) = %q, want %q", index, got, want)
		}
	}
}

func TestLoadRules_MissingFileUsesDefaults(t *testing.T) {
	t.Parallel()

	rules, err := LoadRules(t.TempDir() + "/absent.yaml")
	if err != nil {
		t.Fatalf("LoadRules failed: %v", err)
	}
	if rules.NameColumn != 4 || rules.DateColumn != 14 {
		t.Fatalf("unexpected defaults: %+v", rules)
	}
	if !rules.AllowsColor("#4285f4") {
		t.Fatal("default palette should include #4285f4")
	}
	if rules.AllowsColor("hotpink") {
		t.Fatal("palette should reject unknown colors")
	}
}

func TestLoadRules_PartialFileKeepsDefaults(t *testing.T) {
	t.Parallel()

	path := t.TempDir() + "/rules.yaml"
	if err := os.WriteFile(path, []byte("hospital_keywords: [\"병원\"]\n"), 0o600); err != nil {
		t.Fatalf("write rules file: %v", err)
	}

	rules, err := LoadRules(path)
	if err != nil {
		t.Fatalf("LoadRules failed: %v", err)
	}
	if rules.NameColumn != 4 || rules.DateColumn != 14 {
		t.Fatalf("omitted columns should keep defaults, got name=%d date=%d", rules.NameColumn, rules.DateColumn)
	}
	if len(rules.HospitalKeywords) != 1 || rules.HospitalKeywords[0] != "병원" {
		t.Fatalf("unexpected keywords: %v", rules.HospitalKeywords)
	}
	if !rules.AllowsColor("#4285f4") {
		t.Fatal("omitted palette should keep defaults")
	}
}

func TestLoadRules_ExplicitZeroColumn(t *testing.T) {
	t.Parallel()

	path := t.TempDir() + "/rules.yaml"
	if err := os.WriteFile(path, []byte("name_column: 0\ndate_column: 1\n"), 0o600); err != nil {
		t.Fatalf("write rules file: %v", err)
	}

	rules, err := LoadRules(path)
	if err != nil {
		t.Fatalf("LoadRules failed: %v", err)
	}
	if rules.NameColumn != 0 || rules.DateColumn != 1 {
		t.Fatalf("explicit columns should win, got name=%d date=%d", rules.NameColumn, rules.DateColumn)
	}
}
