package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"
	"pocketdesk/internal/models"
)

func titles[T Record](rs []T) []string {
	out := make([]string, 0, len(rs))
	for _, r := range rs {
		out = append(out, r.RecordTitle())
	}
	return out
}

func sampleTasks() []models.Task {
	// stored newest first, as the store inserts at the front
	return []models.Task{
		{ID: "1700000000300", Title: "banana bread", Date: "12/01/2024"},
		{ID: "1700000000200", Title: "Apple pie", Description: "grandma's recipe", Date: "not a date"},
		{ID: "1700000000100", Title: "Call Alice", Date: "01/03/2023"},
		{ID: "1700000000050", Title: "ébauche", Date: ""},
	}
}

func TestProject_Newest(t *testing.T) {
	got := Project(sampleTasks(), "", SortNewest)
	assert.Equal(t, []string{"banana bread", "Apple pie", "Call Alice", "ébauche"}, titles(got))
}

func TestProject_OldestIsReverseOfNewest(t *testing.T) {
	newest := titles(Project(sampleTasks(), "", SortNewest))
	oldest := titles(Project(sampleTasks(), "", SortOldest))
	for i, j := 0, len(oldest)-1; i < j; i, j = i+1, j-1 {
		oldest[i], oldest[j] = oldest[j], oldest[i]
	}
	assert.Equal(t, newest, oldest)
}

func TestProject_EmptyModeIsNewest(t *testing.T) {
	assert.Equal(t, Project(sampleTasks(), "", SortNewest), Project(sampleTasks(), "", ""))
}

func TestProject_AZ(t *testing.T) {
	got := Project(sampleTasks(), "", SortAZ)
	assert.Equal(t, []string{"Apple pie", "banana bread", "Call Alice", "ébauche"}, titles(got))
}

func TestProjectIn_AZLocale(t *testing.T) {
	recs := []models.Note{
		{ID: "1", Title: "zebra"},
		{ID: "2", Title: "Äpfel"},
		{ID: "3", Title: "Ost"},
	}
	got := ProjectIn(language.German, recs, "", SortAZ)
	assert.Equal(t, []string{"Äpfel", "Ost", "zebra"}, titles(got))
}

func TestProject_Date(t *testing.T) {
	got := Project(sampleTasks(), "", SortDate)
	// invalid and missing dates last, in input order
	assert.Equal(t, []string{"Call Alice", "banana bread", "Apple pie", "ébauche"}, titles(got))
}

func TestProject_DateOnNotesKeepsInputOrder(t *testing.T) {
	notes := []models.Note{{ID: "1", Title: "b"}, {ID: "3", Title: "a"}, {ID: "2", Title: "c"}}
	assert.Equal(t, []string{"b", "a", "c"}, titles(Project(notes, "", SortDate)))
}

func TestProject_UnknownModeKeepsInputOrder(t *testing.T) {
	got := Project(sampleTasks(), "", SortMode("priority"))
	assert.Equal(t, titles(sampleTasks()), titles(got))
}

func TestProject_FilterTitleAndDescription(t *testing.T) {
	assert.Equal(t, []string{"Call Alice"}, titles(Project(sampleTasks(), "ALICE", SortNewest)))
	assert.Equal(t, []string{"Apple pie"}, titles(Project(sampleTasks(), "Grandma", SortNewest)))
	assert.Empty(t, Project(sampleTasks(), "nothing like this", SortNewest))
	assert.Equal(t, []string{"ébauche"}, titles(Project(sampleTasks(), "ÉBAU", SortNewest)))
}

func TestProject_DoesNotMutateInput(t *testing.T) {
	in := sampleTasks()
	before := append([]models.Task(nil), in...)

	first := Project(in, "", SortAZ)
	second := Project(in, "", SortAZ)

	assert.Equal(t, before, in)
	assert.Equal(t, first, second)

	first[0].Title = "changed"
	assert.Equal(t, before, in)
}

func TestProject_NonNumericIDsLast(t *testing.T) {
	recs := []models.Note{{ID: "x", Title: "x"}, {ID: "5", Title: "five"}, {ID: "y", Title: "y"}, {ID: "9", Title: "nine"}}
	assert.Equal(t, []string{"nine", "five", "x", "y"}, titles(Project(recs, "", SortNewest)))
	assert.Equal(t, []string{"five", "nine", "x", "y"}, titles(Project(recs, "", SortOldest)))
}

func TestProject_ExampleScenario(t *testing.T) {
	tasks := []models.Task{
		{ID: "2000", Title: "Call Alice", Date: "01/03/2024"},
		{ID: "1000", Title: "Buy milk", Date: "05/03/2024"},
	}
	assert.Equal(t, []string{"Call Alice", "Buy milk"}, titles(Project(tasks, "", SortDate)))
	assert.Equal(t, []string{"Call Alice", "Buy milk"}, titles(Project(tasks, "", SortNewest)))
	assert.Equal(t, []string{"Buy milk", "Call Alice"}, titles(Project(tasks, "", SortOldest)))
}

func TestParseDate(t *testing.T) {
	cases := []struct {
		in string
		ok bool
	}{
		{"05/03/2024", true},
		{"5/3/2024", true},
		{"29/02/2024", true},
		{"29/02/2023", false},
		{"31/04/2024", false},
		{"2024/03/05", false},
		{"05-03-2024", false},
		{"", false},
		{"aa/bb/cccc", false},
		{"005/03/2024", false},
	}
	for _, c := range cases {
		_, ok := ParseDate(c.in)
		assert.Equal(t, c.ok, ok, c.in)
	}
	d, ok := ParseDate("05/03/2024")
	assert.True(t, ok)
	assert.Equal(t, 5, d.Day())
	assert.Equal(t, 3, int(d.Month()))
}

func TestSortModesFor(t *testing.T) {
	assert.Contains(t, SortModesFor(models.KindTask), SortDate)
	assert.NotContains(t, SortModesFor(models.KindNote), SortDate)
	assert.True(t, SortMode("").Valid())
	assert.False(t, SortMode("random").Valid())
}
