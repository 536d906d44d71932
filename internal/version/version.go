package version

import "fmt"

var (
	// Version はビルド時に -ldflags で設定される
	Version = "dev"
	// Commit はビルド元のGitコミットハッシュ
	Commit = "none"
	// Date はビルド日時
	Date = "unknown"
)

// Info はバージョン情報を保持する構造体
type Info struct {
	Version string
	Commit  string
	Date    string
}

// Get は現在のバージョン情報を返す
func Get() Info {
	return Info{
		Version: Version,
		Commit:  Commit,
		Date:    Date,
	}
}

// String は "conflictlabel <version> (commit: <commit>, built: <date>)" を返す
func (i Info) String() string {
	return fmt.Sprintf("conflictlabel %s (commit: %s, built: %s)", i.Version, i.Commit, i.Date)
}
