package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/alegato/internal/model"
	"github.com/ppiankov/alegato/internal/pipeline"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"escritos/Demanda Civil.txt", "Demanda-Civil"},
		{"https://example.org/escritos/apelacion.html?id=3", "apelacion"},
		{`C:\casos\a:b.txt`, "a_b"},
		{"https://example.org/", "example"},
		{"", "submission"},
	}
	for _, tt := range tests {
		if got := sanitizeFilename(tt.in); got != tt.want {
			t.Errorf("sanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBatchWriter_UniqueNames(t *testing.T) {
	dir := t.TempDir()
	w := newBatchWriter(dir, pipeline.FormatJSON, false)
	resp := model.EmptyResponse("pleading", "")

	first, err := w.write("a/demanda.txt", resp)
	if err != nil {
		t.Fatal(err)
	}
	second, err := w.write("b/demanda.txt", resp)
	if err != nil {
		t.Fatal(err)
	}

	if filepath.Base(first) != "demanda.json" || filepath.Base(second) != "demanda-2.json" {
		t.Errorf("unexpected report names: %s, %s", first, second)
	}
	for _, p := range []string{first, second} {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("expected report at %s: %v", p, err)
		}
	}
}

func TestBatchInputs(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.txt", "a.html", "notes.pdf"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("HECHOS\nx"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	paths, err := batchInputs(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) != 2 || filepath.Base(paths[0]) != "a.html" {
		t.Errorf("expected sorted supported files, got %v", paths)
	}

	list := filepath.Join(dir, "list.txt")
	if err := os.WriteFile(list, []byte("# escritos\nb.txt\n\nhttps://example.org/x.html\n"), 0644); err != nil {
		t.Fatal(err)
	}
	paths, err = batchInputs(list)
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) != 2 || paths[0] != filepath.Join(dir, "b.txt") || paths[1] != "https://example.org/x.html" {
		t.Errorf("unexpected list paths: %v", paths)
	}

	if _, err := batchInputs(filepath.Join(dir, "missing")); err == nil {
		t.Error("expected error for missing input")
	}
}

func TestWriteDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".alegato", "config.yaml")

	if err := writeDefaultConfig(path); err != nil {
		t.Fatalf("writeDefaultConfig failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "# Alegato Configuration File") {
		t.Error("expected header comment")
	}

	var cfg model.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		t.Fatalf("written config is not valid YAML: %v", err)
	}
	if cfg.Precedent.TopK != model.DefaultConfig().Precedent.TopK {
		t.Errorf("expected default top_k, got %d", cfg.Precedent.TopK)
	}

	if err := writeDefaultConfig(path); err == nil {
		t.Error("expected error when config already exists")
	}
}

func TestInitConfig_Layers(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "precedent:\n  top_k: 9\nlog:\n  level: warn\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	prev := cfgFile
	cfgFile = path
	t.Cleanup(func() { cfgFile = prev })

	t.Setenv("ALEGATO_LOG_LEVEL", "debug")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	initConfig()
	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}

	if cfg.Precedent.TopK != 9 {
		t.Errorf("expected top_k from file, got %d", cfg.Precedent.TopK)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("expected env to override file, got %s", cfg.Log.Level)
	}
	if cfg.Precedent.OpenAI.APIKey != "sk-test" {
		t.Errorf("expected api key from OPENAI_API_KEY, got %q", cfg.Precedent.OpenAI.APIKey)
	}
	if cfg.Cache.MemoryTTL != time.Hour {
		t.Errorf("expected default memory ttl, got %v", cfg.Cache.MemoryTTL)
	}
	if len(cfg.Precedent.Milvus.MetadataFields) != 3 {
		t.Errorf("expected default metadata fields, got %v", cfg.Precedent.Milvus.MetadataFields)
	}
}

func TestRedact(t *testing.T) {
	cfg := model.DefaultConfig()
	cfg.Precedent.OpenAI.APIKey = "sk-secret"
	cfg.Cache.Redis.Password = "pw"

	redact(cfg)

	if cfg.Precedent.OpenAI.APIKey == "sk-secret" || cfg.Cache.Redis.Password == "pw" {
		t.Error("expected secrets to be masked")
	}
	if cfg.Precedent.Milvus.Password != "" {
		t.Error("expected empty secrets to stay empty")
	}
}
