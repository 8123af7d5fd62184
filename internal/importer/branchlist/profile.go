package branchlist

// Profile describes the column layout of a branch list export.
// Adding a new layout is just adding a new Profile to the profiles slice.
type Profile struct {
	Name    string
	CodeCol string
	NameCol string
}

func (p Profile) requiredCols() []string {
	return []string{p.CodeCol, p.NameCol}
}

// profiles is the ordered list of layouts tried during auto-detection.
// Header names are matched case-insensitively.
var profiles = []Profile{
	{
		Name:    "thai",
		CodeCol: "รหัสสาขา",
		NameCol: "ชื่อสาขา",
	},
	{
		Name:    "analytics",
		CodeCol: "branch_id",
		NameCol: "branch",
	},
	{
		Name:    "english",
		CodeCol: "code",
		NameCol: "name",
	},
	{
		Name:    "english-long",
		CodeCol: "branch code",
		NameCol: "branch name",
	},
}
