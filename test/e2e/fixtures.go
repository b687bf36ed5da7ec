package e2e

import (
	"os"
	"path/filepath"
)

// WriteFiles writes files into dir, creating it if needed.
func WriteFiles(dir string, files []CorpusFile) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	for _, f := range files {
		if err := os.WriteFile(filepath.Join(dir, f.Name), []byte(f.Content), 0644); err != nil {
			return err
		}
	}
	return nil
}

// WriteCorpus writes both the ingestible and the ignored files of c into dir.
func WriteCorpus(dir string, c *Corpus) error {
	if err := WriteFiles(dir, c.Files); err != nil {
		return err
	}
	return WriteFiles(dir, c.Ignored)
}
