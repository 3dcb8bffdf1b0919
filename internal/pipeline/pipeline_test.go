package pipeline

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTemp(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
	return path
}

func TestTokenizeFileAcceptsAndSkips(t *testing.T) {
	dir := t.TempDir()
	raw := writeTemp(t, dir, "raw_text.tsv",
		"1\tsrc\thttp://a\tAlpha\tThe Quick Fox\n"+
			"2\tsrc\thttp://b\tBeta\t\n"+ // empty text, skipped
			"bad line with no tabs\n"+ // malformed, skipped
			"4\tsrc\thttp://d\tDelta\t!!!\n", // tokenizes to zero tokens, skipped
	)
	out := filepath.Join(dir, "tokenized.txt")

	stats, err := TokenizeFile(raw, out)
	if err != nil {
		t.Fatalf("TokenizeFile: %v", err)
	}
	if stats.DocsAccepted != 1 {
		t.Errorf("DocsAccepted = %d, want 1", stats.DocsAccepted)
	}
	if stats.DocsSkipped != 3 {
		t.Errorf("DocsSkipped = %d, want 3", stats.DocsSkipped)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("reading tokenized output: %v", err)
	}
	if got, want := string(data), "1\tthe quick fox\n"; got != want {
		t.Errorf("tokenized output = %q, want %q", got, want)
	}
}

func TestStemFileAppliesSharedRules(t *testing.T) {
	dir := t.TempDir()
	tokenized := writeTemp(t, dir, "tokenized.txt", "1\trunning jumped foxes\n")
	out := filepath.Join(dir, "stemmed.txt")

	stats, err := StemFile(tokenized, out)
	if err != nil {
		t.Fatalf("StemFile: %v", err)
	}
	if stats.Documents != 1 {
		t.Errorf("Documents = %d, want 1", stats.Documents)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("reading stemmed output: %v", err)
	}
	if got, want := string(data), "1\trunn jump fox\n"; got != want {
		t.Errorf("stemmed output = %q, want %q", got, want)
	}
}

func TestStemFileDropsLinesWithNoTab(t *testing.T) {
	dir := t.TempDir()
	tokenized := writeTemp(t, dir, "tokenized.txt", "no tab here\n1\tfoxes\n")
	out := filepath.Join(dir, "stemmed.txt")

	stats, err := StemFile(tokenized, out)
	if err != nil {
		t.Fatalf("StemFile: %v", err)
	}
	if stats.Documents != 1 {
		t.Errorf("Documents = %d, want 1", stats.Documents)
	}
}
