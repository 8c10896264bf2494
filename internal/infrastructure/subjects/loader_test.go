package subjects

import (
	"os"
	"path/filepath"
	"testing"
)

func writeSubjects(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "subjects.jsonl")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing subjects fixture: %v", err)
	}
	return path
}

func TestLoadJSONL(t *testing.T) {
	content := `{"subject_name": "Maria", "dietary_history": {"food_allergies": {"list": ["amendoim"], "details": ""}}}
{"subject_name": "João", "dietary_history": {"favorite_foods": "frango, arroz"}}`

	reg, err := Load(writeSubjects(t, content))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if reg.Count() != 2 {
		t.Fatalf("Count() = %d, want 2", reg.Count())
	}

	first, err := reg.ByIndex(0)
	if err != nil {
		t.Fatalf("ByIndex(0) error = %v", err)
	}
	if first.Name != "Maria" {
		t.Errorf("subject name = %q, want %q", first.Name, "Maria")
	}
	if got := first.Dietary.FoodAllergies.List; len(got) != 1 || got[0] != "amendoim" {
		t.Errorf("allergies = %v, want [amendoim]", got)
	}

	second, err := reg.ByIndex(1)
	if err != nil {
		t.Fatalf("ByIndex(1) error = %v", err)
	}
	if second.Dietary.FavoriteFoods.Details != "frango, arroz" {
		t.Errorf("favorite details = %q, want bare string preserved", second.Dietary.FavoriteFoods.Details)
	}
}

func TestLoadJSONArray(t *testing.T) {
	content := `[
  {"subject_name": "Ana", "energy_goal_kcal": 1800},
  {"subject_name": "Rui"}
]`
	reg, err := Load(writeSubjects(t, content))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if reg.Count() != 2 {
		t.Fatalf("Count() = %d, want 2", reg.Count())
	}
	s, _ := reg.ByIndex(0)
	if s.EnergyGoal != 1800 {
		t.Errorf("energy goal = %v, want 1800", s.EnergyGoal)
	}
}

func TestLoadNestedInfos(t *testing.T) {
	content := `{"subject_name": "Carla", "subject_infos": {"dietary_history": {"disliked_foods": {"list": ["cogumelos"]}}, "energy_goal_kcal": 2000, "macro_target_grams": {"protein": 120, "carbohydrate": 200, "fat": 60}}}`

	reg, err := Load(writeSubjects(t, content))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	s, err := reg.ByIndex(0)
	if err != nil {
		t.Fatalf("ByIndex(0) error = %v", err)
	}
	if got := s.Dietary.DislikedFoods.List; len(got) != 1 || got[0] != "cogumelos" {
		t.Errorf("disliked = %v, want [cogumelos]", got)
	}
	if s.EnergyGoal != 2000 {
		t.Errorf("energy goal = %v, want 2000", s.EnergyGoal)
	}
	if s.MacroGoal.Protein != 120 {
		t.Errorf("macro protein = %v, want 120", s.MacroGoal.Protein)
	}
}

func TestLoadEmptyPath(t *testing.T) {
	reg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error = %v, want nil", err)
	}
	if reg.Count() != 0 {
		t.Errorf("Count() = %d, want 0", reg.Count())
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.jsonl")); err == nil {
		t.Fatal("Load() on missing file: expected error, got nil")
	}
}

func TestLoadMalformedLine(t *testing.T) {
	content := `{"subject_name": "Ok"}
not json at all`
	if _, err := Load(writeSubjects(t, content)); err == nil {
		t.Fatal("Load() on malformed line: expected error, got nil")
	}
}

func TestByIndexOutOfRange(t *testing.T) {
	reg, err := Load(writeSubjects(t, `{"subject_name": "Solo"}`))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	for _, idx := range []int{-1, 1} {
		if _, err := reg.ByIndex(idx); err == nil {
			t.Errorf("ByIndex(%d): expected error, got nil", idx)
		}
	}
}

func TestNames(t *testing.T) {
	content := `{"subject_name": "Maria"}
{}`
	reg, err := Load(writeSubjects(t, content))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	names := reg.Names()
	want := []string{"Maria", "Subject 1"}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("Names()[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}
