package schema

import "path"

// Config keys of the naming convention. The placeholder spellings are what
// the dashboard templates use; the descriptive spellings are accepted too.
const (
	KeyPluralPascal      = "Users_1_000___"
	KeyPluralLower       = "users_2_000___"
	KeySingularPascal    = "User_3_000___"
	KeySingularLower     = "user_4_000___"
	KeyUseGenerateFolder = "use_generate_folder"
)

var namingAliases = map[string]string{
	KeyPluralPascal:      "pluralPascal",
	KeyPluralLower:       "pluralLower",
	KeySingularPascal:    "singularPascal",
	KeySingularLower:     "singularLower",
	KeyUseGenerateFolder: "useGenerateFolder",
}

// NamingConvention holds the derived names of one generated entity.
type NamingConvention struct {
	PluralPascal   string // "Posts"
	PluralLower    string // "posts", also the route segment
	SingularPascal string // "Post"
	SingularLower  string // "post"
	// UseGenerateFolder places output under the dashboard's generate/ folder.
	UseGenerateFolder bool
}

// BaseDir is the directory all artifacts of the entity are written below.
func (n NamingConvention) BaseDir() string {
	if n.UseGenerateFolder {
		return path.Join("src", "app", "dashboard", "generate", n.PluralLower)
	}
	return path.Join("src", "app", "dashboard", n.PluralLower)
}

// APIPath is the route the generated handlers are served from.
func (n NamingConvention) APIPath() string {
	base := "/dashboard/"
	if n.UseGenerateFolder {
		base += "generate/"
	}
	return base + n.PluralLower + "/all/api/v1"
}

// Config is one generation request.
type Config struct {
	UID          string
	TemplateName string
	Schema       *Group
	Naming       NamingConvention
}
