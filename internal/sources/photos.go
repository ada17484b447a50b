package sources

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/piquique/daybook/internal/dates"
	"github.com/piquique/daybook/internal/model"
)

// Only camera output counts toward a photo session.
var photoExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".heic": true,
	".webp": true,
	".mp4":  true,
}

// LoadPhotos scans a tree laid out as <root>/<year>/<YYYY-MM-DD>/<file> and
// summarizes each day directory. Time-of-day per file comes from the
// YYYYMMDD_HHMMSS fragment embedded in the name when present, else from the
// file's modification time. Only file names and mtimes are read, never
// contents.
func LoadPhotos(root string) (map[dates.Day]model.PhotoDay, error) {
	byDay := map[dates.Day]model.PhotoDay{}

	years, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			log.Warn().Str("root", root).Msg("photo root missing, continuing without photos")
			return byDay, nil
		}
		return nil, err
	}

	for _, year := range years {
		if !year.IsDir() || !allDigits(year.Name()) {
			continue
		}
		dayDirs, err := os.ReadDir(filepath.Join(root, year.Name()))
		if err != nil {
			continue
		}
		for _, dayDir := range dayDirs {
			if !dayDir.IsDir() {
				continue
			}
			day, err := dates.ParseISO(dayDir.Name())
			if err != nil {
				continue
			}
			summary, ok := summarizeDayDir(filepath.Join(root, year.Name(), dayDir.Name()))
			if ok {
				byDay[day] = summary
			}
		}
	}
	return byDay, nil
}

type photoFile struct {
	clock string
	name  string
}

func summarizeDayDir(dir string) (model.PhotoDay, bool) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return model.PhotoDay{}, false
	}

	var files []photoFile
	for _, e := range entries {
		if e.IsDir() || !photoExtensions[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		clock, ok := dates.TimeFromFilename(e.Name())
		if !ok {
			clock = "00:00"
			if info, err := e.Info(); err == nil {
				clock = info.ModTime().Format("15:04")
			}
		}
		files = append(files, photoFile{clock: clock, name: e.Name()})
	}
	if len(files) == 0 {
		return model.PhotoDay{}, false
	}

	sort.Slice(files, func(i, j int) bool {
		if files[i].clock != files[j].clock {
			return files[i].clock < files[j].clock
		}
		return files[i].name < files[j].name
	})

	names := make([]string, len(files))
	for i, f := range files {
		names[i] = f.name
	}
	return model.PhotoDay{
		Count: len(files),
		First: files[0].clock,
		Last:  files[len(files)-1].clock,
		Names: strings.Join(names, "; "),
	}, true
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
