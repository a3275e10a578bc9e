package utils

import (
	"path"
	"path/filepath"

	"github.com/kardianos/osext"
)

func GetAbsoluteDir(relative string) string {

	exfolder, err := osext.ExecutableFolder()
	Check(err, "Cannot get absolute dir for "+relative)

	return path.Join(exfolder, relative)
}

// ResolvePath leaves absolute paths untouched and anchors relative ones to the executable folder.
func ResolvePath(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}

	return GetAbsoluteDir(p)
}
