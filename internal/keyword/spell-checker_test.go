package keyword

import (
	"testing"
)

// mockTermDictionary is a mock implementation of TermDictionary for testing.
type mockTermDictionary struct {
	terms        map[string]int // term -> frequency
	getAllError  error
	getFreqError error
}

func newMockTermDictionary(terms map[string]int) *mockTermDictionary {
	return &mockTermDictionary{terms: terms}
}

func (m *mockTermDictionary) GetAllTerms() ([]string, error) {
	if m.getAllError != nil {
		return nil, m.getAllError
	}
	result := make([]string, 0, len(m.terms))
	for term := range m.terms {
		result = append(result, term)
	}
	return result, nil
}

func (m *mockTermDictionary) GetTermFrequency(term string) (int, error) {
	if m.getFreqError != nil {
		return 0, m.getFreqError
	}
	return m.terms[term], nil
}

func (m *mockTermDictionary) ContainsTerm(term string) (bool, error) {
	_, ok := m.terms[term]
	return ok, nil
}

func TestSpellChecker_Defaults(t *testing.T) {
	dict := newMockTermDictionary(map[string]int{"password": 10})

	sc := NewSpellChecker(dict)
	if sc == nil {
		t.Fatal("NewSpellChecker returned nil")
	}
	if sc.maxDistance != 2 {
		t.Errorf("default maxDistance = %d, want 2", sc.maxDistance)
	}
	if sc.minFreq != 1 {
		t.Errorf("default minFreq = %d, want 1", sc.minFreq)
	}
	if sc.maxSuggestions != 5 {
		t.Errorf("default maxSuggestions = %d, want 5", sc.maxSuggestions)
	}
}

func TestSpellChecker_Options(t *testing.T) {
	dict := newMockTermDictionary(map[string]int{"password": 10})

	sc := NewSpellChecker(dict,
		WithMaxDistance(3),
		WithMinFrequency(5),
		WithMaxSuggestions(10),
	)

	if sc.maxDistance != 3 {
		t.Errorf("maxDistance = %d, want 3", sc.maxDistance)
	}
	if sc.minFreq != 5 {
		t.Errorf("minFreq = %d, want 5", sc.minFreq)
	}
	if sc.maxSuggestions != 10 {
		t.Errorf("maxSuggestions = %d, want 10", sc.maxSuggestions)
	}
}

func TestSpellChecker_Suggest(t *testing.T) {
	dict := newMockTermDictionary(map[string]int{
		"password":     100,
		"billing":      80,
		"invoice":      60,
		"account":      50,
		"subscription": 40,
		"notification": 30,
	})

	sc := NewSpellChecker(dict, WithMaxDistance(2))
	if err := sc.RefreshCache(); err != nil {
		t.Fatalf("RefreshCache: %v", err)
	}

	tests := []struct {
		name       string
		term       string
		wantFirst  string
		wantMinLen int
	}{
		{
			name:       "pasword -> password",
			term:       "pasword",
			wantFirst:  "password",
			wantMinLen: 1,
		},
		{
			name:       "billng -> billing",
			term:       "billng",
			wantFirst:  "billing",
			wantMinLen: 1,
		},
		{
			name:       "invioce -> invoice (transposition)",
			term:       "invioce",
			wantFirst:  "invoice",
			wantMinLen: 1,
		},
		{
			name:       "xyz (no match)",
			term:       "xyz",
			wantFirst:  "",
			wantMinLen: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			suggestions := sc.Suggest(tt.term)

			if len(suggestions) < tt.wantMinLen {
				t.Errorf("Suggest(%q) returned %d suggestions, want at least %d",
					tt.term, len(suggestions), tt.wantMinLen)
				return
			}

			if tt.wantFirst != "" && len(suggestions) > 0 {
				if suggestions[0].Term != tt.wantFirst {
					t.Errorf("Suggest(%q)[0].Term = %q, want %q",
						tt.term, suggestions[0].Term, tt.wantFirst)
				}
			}
		})
	}
}

func TestSpellChecker_Suggest_TranspositionIsOneEdit(t *testing.T) {
	dict := newMockTermDictionary(map[string]int{"password": 100})

	// "passwrod" swaps two adjacent letters. Damerau counts that as one edit,
	// so it survives even with maxDistance 1.
	sc := NewSpellChecker(dict, WithMaxDistance(1))
	if err := sc.RefreshCache(); err != nil {
		t.Fatalf("RefreshCache: %v", err)
	}

	suggestions := sc.Suggest("passwrod")
	if len(suggestions) == 0 {
		t.Fatal("transposed term should be within distance 1")
	}
	if suggestions[0].Term != "password" || suggestions[0].Distance != 1 {
		t.Errorf("got %q at distance %d, want password at 1", suggestions[0].Term, suggestions[0].Distance)
	}
}

func TestSpellChecker_Check(t *testing.T) {
	dict := newMockTermDictionary(map[string]int{
		"password": 100,
		"reset":    80,
		"billing":  60,
		"upgrade":  50,
		"plan":     40,
	})

	sc := NewSpellChecker(dict, WithMaxDistance(2))

	tests := []struct {
		name           string
		query          string
		wantCorrected  string
		wantHasCorrect bool
		wantMisspelled int
	}{
		{
			name:           "valid query",
			query:          "reset password",
			wantCorrected:  "reset password",
			wantHasCorrect: false,
			wantMisspelled: 0,
		},
		{
			name:           "single typo",
			query:          "pasword",
			wantCorrected:  "password",
			wantHasCorrect: true,
			wantMisspelled: 1,
		},
		{
			name:           "multiple typos",
			query:          "upgrde pln",
			wantCorrected:  "upgrade plan",
			wantHasCorrect: true,
			wantMisspelled: 2,
		},
		{
			name:           "mixed valid and typo",
			query:          "billng reset",
			wantCorrected:  "billing reset",
			wantHasCorrect: true,
			wantMisspelled: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := sc.Check(tt.query)
			if err != nil {
				t.Fatalf("Check(%q): %v", tt.query, err)
			}

			if result.CorrectedQuery != tt.wantCorrected {
				t.Errorf("Check(%q).CorrectedQuery = %q, want %q",
					tt.query, result.CorrectedQuery, tt.wantCorrected)
			}

			if result.HasCorrections != tt.wantHasCorrect {
				t.Errorf("Check(%q).HasCorrections = %v, want %v",
					tt.query, result.HasCorrections, tt.wantHasCorrect)
			}

			if len(result.MisspelledTerms) != tt.wantMisspelled {
				t.Errorf("Check(%q).MisspelledTerms has %d items, want %d",
					tt.query, len(result.MisspelledTerms), tt.wantMisspelled)
			}
		})
	}
}

func TestSpellChecker_IsMisspelled(t *testing.T) {
	dict := newMockTermDictionary(map[string]int{
		"password": 10,
		"billing":  20,
		"invoice":  30,
	})

	sc := NewSpellChecker(dict)

	tests := []struct {
		term string
		want bool
	}{
		{"password", false},
		{"billing", false},
		{"invoice", false},
		{"pasword", true},
		{"xyz", true},
		{"PASSWORD", false}, // case insensitive
	}

	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			if got := sc.IsMisspelled(tt.term); got != tt.want {
				t.Errorf("IsMisspelled(%q) = %v, want %v", tt.term, got, tt.want)
			}
		})
	}
}

func TestSpellChecker_GetSuggestedQuery(t *testing.T) {
	dict := newMockTermDictionary(map[string]int{
		"password": 100,
		"reset":    80,
	})

	sc := NewSpellChecker(dict)

	tests := []struct {
		query string
		want  string
	}{
		{"reset password", "reset password"},
		{"pasword", "password"},
		{"pasword resrt", "password reset"},
		{"xyz", "xyz"}, // no suggestion, return original
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			if got := sc.GetSuggestedQuery(tt.query); got != tt.want {
				t.Errorf("GetSuggestedQuery(%q) = %q, want %q", tt.query, got, tt.want)
			}
		})
	}
}

func TestSpellChecker_GetTopSuggestions(t *testing.T) {
	dict := newMockTermDictionary(map[string]int{
		"password": 100,
	})

	sc := NewSpellChecker(dict)

	suggestions := sc.GetTopSuggestions("pasword", 5)
	if len(suggestions) == 0 {
		t.Error("GetTopSuggestions returned empty for typo")
	}
	if len(suggestions) > 0 && suggestions[0] != "password" {
		t.Errorf("GetTopSuggestions[0] = %q, want 'password'", suggestions[0])
	}
}

func TestSpellChecker_Suggest_RanksByFrequency(t *testing.T) {
	// Three terms all one edit from the query, different frequencies.
	dict := newMockTermDictionary(map[string]int{
		"card": 100,
		"cart": 10,
		"care": 50,
	})

	sc := NewSpellChecker(dict, WithMaxDistance(1))
	if err := sc.RefreshCache(); err != nil {
		t.Fatalf("RefreshCache: %v", err)
	}

	// "carb" is 1 edit from card, cart, and care.
	suggestions := sc.Suggest("carb")

	if len(suggestions) < 3 {
		t.Fatalf("expected 3 suggestions, got %d", len(suggestions))
	}

	if suggestions[0].Term != "card" {
		t.Errorf("highest frequency term should be first, got %q", suggestions[0].Term)
	}
}

func TestSpellChecker_Suggest_RespectsMaxDistance(t *testing.T) {
	dict := newMockTermDictionary(map[string]int{
		"notification": 100,
	})

	// "notafacation" is 2 substitutions away from "notification".
	sc := NewSpellChecker(dict, WithMaxDistance(1))
	if err := sc.RefreshCache(); err != nil {
		t.Fatalf("RefreshCache: %v", err)
	}

	suggestions := sc.Suggest("notafacation")
	if len(suggestions) != 0 {
		t.Errorf("maxDistance=1 should not match 2-edit term, got %d suggestions", len(suggestions))
	}

	sc2 := NewSpellChecker(dict, WithMaxDistance(2))
	if err := sc2.RefreshCache(); err != nil {
		t.Fatalf("RefreshCache: %v", err)
	}

	suggestions2 := sc2.Suggest("notafacation")
	if len(suggestions2) == 0 {
		t.Error("maxDistance=2 should match 2-edit term")
	}
}

func TestSpellChecker_Suggest_RespectsMinFrequency(t *testing.T) {
	dict := newMockTermDictionary(map[string]int{
		"plan": 5,
		"plus": 1,
	})

	sc := NewSpellChecker(dict, WithMinFrequency(3))
	if err := sc.RefreshCache(); err != nil {
		t.Fatalf("RefreshCache: %v", err)
	}

	suggestions := sc.Suggest("plun")

	for _, s := range suggestions {
		if s.Frequency < 3 {
			t.Errorf("suggestion %q has frequency %d, below minFreq 3", s.Term, s.Frequency)
		}
	}
}

func TestSpellChecker_Suggest_LimitsResults(t *testing.T) {
	terms := make(map[string]int)
	for i := 0; i < 20; i++ {
		terms["plan"+string(rune('a'+i))] = 10
	}

	dict := newMockTermDictionary(terms)
	sc := NewSpellChecker(dict, WithMaxSuggestions(3))
	if err := sc.RefreshCache(); err != nil {
		t.Fatalf("RefreshCache: %v", err)
	}

	suggestions := sc.Suggest("plan")

	if len(suggestions) > 3 {
		t.Errorf("got %d suggestions, want at most 3", len(suggestions))
	}
}

var errMock = &mockError{}

type mockError struct{}

func (e *mockError) Error() string { return "mock error" }

func TestSpellChecker_RefreshCache_Error(t *testing.T) {
	dict := &mockTermDictionary{
		terms:       map[string]int{"password": 10},
		getAllError: errMock,
	}

	sc := NewSpellChecker(dict)
	if err := sc.RefreshCache(); err == nil {
		t.Error("RefreshCache should return error when GetAllTerms fails")
	}
}

func TestSpellChecker_IsMisspelled_CacheRefreshError(t *testing.T) {
	dict := &mockTermDictionary{
		terms:       map[string]int{"password": 10},
		getAllError: errMock,
	}

	sc := NewSpellChecker(dict)
	// No manual refresh; IsMisspelled tries and fails, and must not panic.
	if sc.IsMisspelled("xyz") {
		t.Error("IsMisspelled should return false when cache refresh fails")
	}
}

func TestSpellChecker_Check_CacheRefreshError(t *testing.T) {
	dict := &mockTermDictionary{
		terms:       map[string]int{"password": 10},
		getAllError: errMock,
	}

	sc := NewSpellChecker(dict)

	if _, err := sc.Check("xyz"); err == nil {
		t.Error("Check should return error when cache refresh fails")
	}
}

func TestSpellChecker_Suggest_TermFrequencyError(t *testing.T) {
	dict := &mockTermDictionary{
		terms:        map[string]int{"plan": 10, "plus": 5},
		getFreqError: errMock,
	}

	sc := NewSpellChecker(dict)
	if err := sc.RefreshCache(); err != nil {
		t.Fatalf("RefreshCache: %v", err)
	}

	// Frequency lookup failures drop the candidate entirely.
	suggestions := sc.Suggest("plun")
	if len(suggestions) != 0 {
		t.Errorf("Suggest should return empty when frequency lookup fails, got %d", len(suggestions))
	}
}

func TestSpellChecker_GetTopSuggestions_NoCorrections(t *testing.T) {
	dict := newMockTermDictionary(map[string]int{
		"password": 100,
	})

	sc := NewSpellChecker(dict)

	suggestions := sc.GetTopSuggestions("password", 5)
	if len(suggestions) != 0 {
		t.Errorf("GetTopSuggestions should return empty for correct query, got %d", len(suggestions))
	}
}

func TestSpellChecker_Check_EmptyQuery(t *testing.T) {
	dict := newMockTermDictionary(map[string]int{"password": 10})

	sc := NewSpellChecker(dict)

	result, err := sc.Check("")
	if err != nil {
		t.Fatalf("Check empty query: %v", err)
	}
	if result.HasCorrections {
		t.Error("empty query should have no corrections")
	}
	if result.CorrectedQuery != "" {
		t.Errorf("empty query corrected to %q", result.CorrectedQuery)
	}
}
