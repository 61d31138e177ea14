package pdf

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Search finds generated reports in the output directory
type Search struct {
	validator *Validator
}

// NewSearch creates a new report search handler with the specified constraints
func NewSearch(maxFileSize int64) *Search {
	return &Search{
		validator: NewValidator(maxFileSize),
	}
}

// ListReports returns the reports in directory, newest first. Only the top
// level is scanned since reports are always written there.
func (s *Search) ListReports(directory string, req ReportListRequest) (*ReportListResult, error) {
	if directory == "" {
		return nil, fmt.Errorf("directory cannot be empty")
	}

	absDirectory, err := filepath.Abs(directory)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve directory path: %w", err)
	}

	result := &ReportListResult{
		Files:       []FileInfo{},
		Directory:   absDirectory,
		SearchQuery: req.Query,
	}

	entries, err := os.ReadDir(absDirectory)
	if os.IsNotExist(err) {
		return result, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	query := strings.ToLower(strings.TrimSpace(req.Query))
	type found struct {
		info FileInfo
		mod  int64
	}
	var files []found

	for _, entry := range entries {
		if entry.IsDir() || !s.isPDFFile(entry.Name()) {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(entry.Name()), query) {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}
		path := filepath.Join(absDirectory, entry.Name())

		// Quick validation without opening the file
		if err := s.validator.ValidateFileInfo(path, info); err != nil {
			continue
		}

		files = append(files, found{
			info: FileInfo{
				Path:         path,
				Name:         info.Name(),
				Size:         info.Size(),
				ModifiedTime: info.ModTime().Format("2006-01-02 15:04:05"),
			},
			mod: info.ModTime().UnixNano(),
		})
	}

	sort.SliceStable(files, func(i, j int) bool {
		if files[i].mod != files[j].mod {
			return files[i].mod > files[j].mod
		}
		return files[i].info.Name > files[j].info.Name
	})

	for _, f := range files {
		if req.Limit > 0 && len(result.Files) >= req.Limit {
			break
		}
		result.Files = append(result.Files, f.info)
	}
	result.TotalCount = len(files)

	return result, nil
}

// isPDFFile checks if a file has a PDF extension
func (s *Search) isPDFFile(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), ".pdf")
}
