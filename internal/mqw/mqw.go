// Package mqw has functions for loading game data using the MQW (MinnowQuest
// Worlds) game data file format, a TOML-based format that is used to define
// game worlds for the engine to run.
package mqw

import (
	"errors"
	"os"
	"unicode"

	"github.com/BurntSushi/toml"
	"github.com/dekarrin/minnowquest/internal/game"
)

const MaxManifestRecursionDepth = 32

var (
	// ErrManifestEmpty is the error returned when a manifest file is read
	// successfully but specifies no additional files to load.
	ErrManifestEmpty = errors.New("does not list any valid files to include")

	// ErrManifestStackOverflow is the error returned when the recursion level
	// of MaxManifestRecursionDepth is reached and an additional Manifest is
	// then specified, which would cause recursion to go deeper.
	ErrManifestStackOverflow = errors.New("too many manifests deep")

	// ErrManifestCircularRef is the error returned when a manifest specifies
	// any series of files that with their own manifests refer back to the
	// original manifest, and therefore cannot be followed.
	ErrManifestCircularRef = errors.New("manifest inclusion chain refers back to itself")
)

// Manifest contains data loaded from one or more MQW Manifest files.
type Manifest struct {
	Files []string
}

// WorldData contains data loaded from one or more MQW World Data files.
type WorldData struct {
	// Rooms has every room in the World, pre-loaded with the items that start
	// on the ground and ready for immediate use.
	Rooms map[string]*game.Room

	// Start is the label of the room the character starts in.
	Start string

	// Flags is every flag defined in the world mapped to its starting value.
	// The flag reserved for lighting dark rooms is always present.
	Flags map[string]bool

	// Items is the full definition of every item in the world by label,
	// including items that start nowhere and can only be obtained through a
	// give effect.
	Items map[string]game.Item

	// Commands is the world-defined commands, ready to be registered.
	Commands []game.DataCommand
}

// FileInfo contains the essential information all MQW format files must
// contain. It can be obtained from a file by reading it into memory and
// calling ScanFileInfo on the bytes.
type FileInfo struct {
	Format string `toml:"format"`
	Type   string `toml:"type"`
}

// LoadResourceBundle loads a world up from the given MQW file. The file's
// type is auto-detected and decoding is handled appropriately; the type can
// either be "DATA" type or "MANIFEST" type; if it's manifest type, the files
// listed in it relative to it will also be loaded. All files included will be
// combined into one single set of data before being checked, and if a
// manifest is encountered, all files in it are recursively included.
func LoadResourceBundle(path string) (WorldData, error) {
	unmarshaled, err := recursiveUnmarshalResource(path, nil)
	if err != nil {
		return WorldData{}, err
	}

	world, err := parseWorldData(unmarshaled)
	if err != nil {
		return world, err
	}

	return world, nil
}

// LoadManifestFile loads manifest data from an MQW file.
func LoadManifestFile(path string) (manif Manifest, err error) {
	manifestData, loadErr := os.ReadFile(path)
	if loadErr != nil {
		return manif, loadErr
	}

	unmarshaled, err := unmarshalManifest(manifestData)
	if err != nil {
		return manif, err
	}
	return parseManifest(unmarshaled)
}

// LoadWorldDataFile loads a world from a single world definition file.
func LoadWorldDataFile(path string) (world WorldData, err error) {
	worldFileData, loadErr := os.ReadFile(path)
	if loadErr != nil {
		return world, loadErr
	}

	unmarshaled, err := unmarshalWorldData(worldFileData)
	if err != nil {
		return WorldData{}, err
	}

	return parseWorldData(unmarshaled)
}

// ScanFileInfo takes the given bytes and attempts to read the MQW format
// common header info from them. The bytes are read up to the first instance
// of a table definition header and those bytes are parsed for the info. If
// there is an error reading the info, returns a non-nil error.
func ScanFileInfo(data []byte) (FileInfo, error) {
	// only run the toml parser up to the end of the top-level table
	topLevelEnd := -1
	var onNewLine bool
	for i := range data {
		if onNewLine {
			if data[i] == '[' {
				topLevelEnd = i
				break
			}
		}

		if data[i] == '\n' {
			onNewLine = true
		} else if !unicode.IsSpace(rune(data[i])) {
			onNewLine = false
		}
	}

	scanData := data
	if topLevelEnd != -1 {
		scanData = data[:topLevelEnd]
	}

	var info FileInfo
	err := toml.Unmarshal(scanData, &info)
	return info, err
}
