// Package catalog holds the compiled-in table of cleanup categories.
package catalog

import "slices"

type SafetyLevel int

const (
	Safe SafetyLevel = iota
	Caution
	Advanced
)

func (s SafetyLevel) String() string {
	switch s {
	case Safe:
		return "Safe"
	case Caution:
		return "Caution"
	case Advanced:
		return "Advanced"
	default:
		return "Unknown"
	}
}

// Category is a named set of path patterns that are cleaned together.
// Patterns are either a bare path or a path ending in "/*", which means the
// contents of that directory.
type Category struct {
	ID       string      `json:"id"`
	Title    string      `json:"title"`
	IconName string      `json:"icon"`
	Detail   string      `json:"detail"`
	Safety   SafetyLevel `json:"safety"`
	Paths    []string    `json:"paths"`
	// RequiresElevatedAccess routes the category to "open location"
	// instead of direct deletion.
	RequiresElevatedAccess bool `json:"requires_elevated_access"`
}

// Presets returns a copy of the built-in catalog.
func Presets() []Category {
	out := make([]Category, len(presets))
	for i, c := range presets {
		c.Paths = slices.Clone(c.Paths)
		out[i] = c
	}
	return out
}

// Find looks up a category by ID.
func Find(cats []Category, id string) (Category, bool) {
	for _, c := range cats {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}

// Filter drops the categories whose IDs appear in disabled.
func Filter(cats []Category, disabled []string) []Category {
	if len(disabled) == 0 {
		return cats
	}
	out := make([]Category, 0, len(cats))
	for _, c := range cats {
		if !slices.Contains(disabled, c.ID) {
			out = append(out, c)
		}
	}
	return out
}

// IDs returns the category IDs in catalog order.
func IDs(cats []Category) []string {
	ids := make([]string, len(cats))
	for i, c := range cats {
		ids[i] = c.ID
	}
	return ids
}

var presets = []Category{
	{
		ID:       "trash",
		Title:    "Trash Bin",
		IconName: "trash",
		Detail:   "Empty everything inside ~/.Trash.",
		Safety:   Safe,
		Paths:    []string{"~/.Trash/*"},
	},
	{
		ID:       "mail-attachments",
		Title:    "Mail Attachments",
		IconName: "envelope.badge.fill",
		Detail:   "Remove downloaded Mail attachments (messages stay intact).",
		Safety:   Safe,
		Paths: []string{
			"~/Library/Containers/com.apple.mail/Data/Library/Mail Downloads/*",
			"~/Library/Containers/com.apple.mail/Data/Library/Application Support/Mail/Attachments/*",
		},
	},
	{
		ID:       "user-cache-files",
		Title:    "User Cache Files",
		IconName: "internaldrive",
		Detail:   "Clear ~/Library/Caches (apps recreate these files automatically).",
		Safety:   Safe,
		Paths:    []string{"~/Library/Caches/*"},
	},
	{
		ID:       "user-log-files",
		Title:    "User Log Files",
		IconName: "doc.text.fill",
		Detail:   "Clear crash logs and diagnostic reports stored in your Library.",
		Safety:   Safe,
		Paths: []string{
			"~/Library/Logs/*",
			"~/Library/Logs/DiagnosticReports/*",
			"~/Library/Application Support/CrashReporter/*",
		},
	},
	{
		ID:       "system-log-files",
		Title:    "System Log Files",
		IconName: "gearshape.2.fill",
		Detail:   "Removes macOS system log archives (requires permissions).",
		Safety:   Advanced,
		Paths: []string{
			"/Library/Logs/*",
			"/private/var/log/*",
		},
		RequiresElevatedAccess: true,
	},
	{
		ID:       "language-files",
		Title:    "Language Files",
		IconName: "character.book.closed",
		Detail:   "Remove downloaded dictionaries and language models you do not use.",
		Safety:   Caution,
		Paths: []string{
			"~/Library/Spelling/*",
			"~/Library/LanguageModeling/*",
			"/Library/Spelling/*",
		},
		RequiresElevatedAccess: true,
	},
	{
		ID:                     "document-versions",
		Title:                  "Document Versions",
		IconName:               "clock.arrow.2.circlepath",
		Detail:                 "Clears the .DocumentRevisions-V100 store of old document versions.",
		Safety:                 Advanced,
		Paths:                  []string{"~/.DocumentRevisions-V100/*"},
		RequiresElevatedAccess: true,
	},
	{
		ID:       "login-items",
		Title:    "Broken Login Items",
		IconName: "exclamationmark.shield",
		Detail:   "Resets cached login/background items so macOS rebuilds them fresh.",
		Safety:   Caution,
		Paths: []string{
			"~/Library/Application Support/com.apple.backgroundtaskmanagementagent/*",
			"~/Library/Preferences/com.apple.loginitems.plist",
		},
	},
	{
		ID:       "xcode-derived",
		Title:    "Xcode DerivedData",
		IconName: "hammer",
		Detail:   "Cleans Xcode's DerivedData folder (projects rebuild when needed).",
		Safety:   Caution,
		Paths:    []string{"~/Library/Developer/Xcode/DerivedData"},
	},
	{
		ID:       "xcode-archives",
		Title:    "Old Xcode Archives",
		IconName: "shippingbox",
		Detail:   "Remove outdated .xcarchive bundles from the Archives folder.",
		Safety:   Caution,
		Paths:    []string{"~/Library/Developer/Xcode/Archives/*"},
	},
	{
		ID:       "xcode-simulators",
		Title:    "Xcode Simulators Runtime",
		IconName: "iphone",
		Detail:   "Remove simulator runtimes and device data you no longer need.",
		Safety:   Caution,
		Paths: []string{
			"~/Library/Developer/CoreSimulator/Profiles/Runtimes/*",
			"~/Library/Developer/CoreSimulator/Devices/*",
			"/Library/Developer/CoreSimulator/Profiles/Runtimes/*",
			"/Library/Developer/CoreSimulator/Devices/*",
		},
		RequiresElevatedAccess: true,
	},
	{
		ID:       "xcode-device-support",
		Title:    "Xcode Device Support",
		IconName: "square.stack.3d.up",
		Detail:   "Clears cached device support files for iOS/watchOS/tvOS devices.",
		Safety:   Caution,
		Paths: []string{
			"~/Library/Developer/Xcode/iOS DeviceSupport/*",
			"~/Library/Developer/Xcode/watchOS DeviceSupport/*",
			"~/Library/Developer/Xcode/tvOS DeviceSupport/*",
		},
	},
	{
		ID:       "xcode-caches",
		Title:    "Xcode Caches",
		IconName: "memorychip",
		Detail:   "Removes Xcode symbol/index caches (they regenerate automatically).",
		Safety:   Caution,
		Paths: []string{
			"~/Library/Caches/com.apple.dt.Xcode/*",
			"~/Library/Application Support/Developer/Shared/Xcode/*",
			"~/Library/Developer/CoreSimulator/Caches/*",
			"/Library/Developer/CoreSimulator/Caches/*",
		},
		RequiresElevatedAccess: true,
	},
	{
		ID:       "package-managers",
		Title:    "Package Manager Caches",
		IconName: "shippingbox.circle",
		Detail:   "Removes npm, Yarn, pnpm, and pip caches.",
		Safety:   Safe,
		Paths: []string{
			"~/.npm",
			"~/.cache/pip",
			"~/.pnpm-store",
			"~/.yarn/cache",
			"~/Library/Caches/Yarn",
		},
	},
	{
		ID:       "homebrew",
		Title:    "Homebrew Cache",
		IconName: "leaf",
		Detail:   "Clear downloaded bottle/cache artifacts from Homebrew.",
		Safety:   Safe,
		Paths: []string{
			"~/Library/Caches/Homebrew",
			"~/Library/Logs/Homebrew",
		},
	},
}
