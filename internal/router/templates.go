package router

import (
	"fmt"
	"html/template"
	"path/filepath"
	"time"

	"sharestuff/internal/utils"

	"github.com/gin-contrib/multitemplate"
)

// views maps template names used by handlers to files under views/.
var views = []string{
	"home.html",
	"profile.html",
	"error.html",
	"auth/login.html",
	"auth/register_username.html",
	"legal/terms.html",
	"legal/privacy.html",
}

// LoadTemplates assembles every view with the shared layouts and partials.
func LoadTemplates(templatesDir string) (multitemplate.Renderer, error) {
	r := multitemplate.NewRenderer()

	layouts, err := filepath.Glob(templatesDir + "/layouts/*.html")
	if err != nil {
		return nil, err
	}
	includes, err := filepath.Glob(templatesDir + "/includes/*.html")
	if err != nil {
		return nil, err
	}
	if len(layouts) == 0 {
		return nil, fmt.Errorf("no layouts found in %s", templatesDir)
	}

	assemble := func(view string) []string {
		files := make([]string, 0, len(layouts)+len(includes)+1)
		files = append(files, layouts...)
		files = append(files, includes...)
		return append(files, view)
	}

	for _, name := range views {
		r.AddFromFilesFuncs(name, funcMap, assemble(filepath.Join(templatesDir, "views", name))...)
	}
	return r, nil
}

var funcMap = template.FuncMap{
	"renderPost":   utils.RenderPost,
	"avatarLetter": utils.AvatarLetter,

	"formatTime": func(t time.Time) string {
		return t.Format("2006-01-02 15:04")
	},
	// dict builds a map so partials can take several named values.
	"dict": func(kv ...any) (map[string]any, error) {
		if len(kv)%2 == 1 {
			return nil, fmt.Errorf("dict: odd number of arguments (%d)", len(kv))
		}
		m := make(map[string]any, len(kv)/2)
		for i := 0; i+1 < len(kv); i += 2 {
			k, ok := kv[i].(string)
			if !ok {
				return nil, fmt.Errorf("dict: key %v is %T, want string", kv[i], kv[i])
			}
			m[k] = kv[i+1]
		}
		return m, nil
	},
}
