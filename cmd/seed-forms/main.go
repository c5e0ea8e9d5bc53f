// Package main loads the bundled form templates into the database. Seeded
// forms start Inactive so an administrator activates them explicitly.
package main

import (
	"context"
	"embed"
	"flag"
	"fmt"
	"log"
	"path"
	"sort"

	"github.com/campusdesk/swo-feedback/config"
	"github.com/campusdesk/swo-feedback/internal/store/postgres"
	"github.com/campusdesk/swo-feedback/services"
	"github.com/campusdesk/swo-feedback/types"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

//go:embed templates/*.yaml
var templateFS embed.FS

type questionTemplate struct {
	Text     string `yaml:"text"`
	Type     string `yaml:"type"`
	MinLabel string `yaml:"min_label"`
	MaxLabel string `yaml:"max_label"`
}

type areaTemplate struct {
	Name        string             `yaml:"name"`
	Description string             `yaml:"description"`
	SortOrder   int                `yaml:"sort_order"`
	Mandatory   *bool              `yaml:"mandatory"`
	Questions   []questionTemplate `yaml:"questions"`
}

type formTemplate struct {
	FormType    string             `yaml:"form_type"`
	Title       string             `yaml:"title"`
	Description string             `yaml:"description"`
	IsMandatory bool               `yaml:"is_mandatory"`
	Areas       []areaTemplate     `yaml:"areas"`
	Questions   []questionTemplate `yaml:"questions"`
}

func main() {
	dryRun := flag.Bool("dry-run", false, "Parse and validate templates without writing to the database")
	department := flag.String("department", "", "Department ID to scope the seeded forms to")
	semester := flag.String("semester", "", "Semester ID to scope the seeded forms to")
	createdBy := flag.String("created-by", "seed", "Value stored in created_by")
	flag.Parse()

	_ = godotenv.Load()

	forms, err := loadTemplates()
	if err != nil {
		log.Fatalf("Failed to load templates: %v", err)
	}
	for i := range forms {
		forms[i].DepartmentID = optional(*department)
		forms[i].SemesterID = optional(*semester)
	}
	log.Printf("Loaded %d form templates", len(forms))

	if *dryRun {
		for _, f := range forms {
			log.Printf("  %s: %q (%d areas, %d flat questions)", f.FormType, f.Title, len(f.Areas), len(f.Questions))
		}
		return
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.Database.URL())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		log.Fatalf("Database ping failed: %v", err)
	}

	formService := services.NewFormService(postgres.NewFormStore(pool), nil, nil)
	for _, f := range forms {
		detail, err := formService.Create(ctx, f.FormType, *createdBy, f)
		if err != nil {
			log.Fatalf("Failed to seed %s: %v", f.FormType, err)
		}
		log.Printf("Seeded %s form %s", detail.FormType, detail.ID)
	}
}

// loadTemplates parses every embedded template in file name order.
func loadTemplates() ([]types.FormCreate, error) {
	entries, err := templateFS.ReadDir("templates")
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)

	forms := make([]types.FormCreate, 0, len(names))
	for _, name := range names {
		data, err := templateFS.ReadFile(path.Join("templates", name))
		if err != nil {
			return nil, err
		}
		fc, err := parseTemplate(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		forms = append(forms, fc)
	}
	return forms, nil
}

func parseTemplate(data []byte) (types.FormCreate, error) {
	var tmpl formTemplate
	if err := yaml.Unmarshal(data, &tmpl); err != nil {
		return types.FormCreate{}, fmt.Errorf("parse yaml: %w", err)
	}

	formType := types.FormType(tmpl.FormType)
	if !formType.IsValid() {
		return types.FormCreate{}, fmt.Errorf("unknown form_type %q", tmpl.FormType)
	}

	fc := types.FormCreate{
		FormType:    formType,
		Title:       tmpl.Title,
		Description: tmpl.Description,
		Status:      types.FormStatusInactive,
		IsMandatory: tmpl.IsMandatory,
		Questions:   toQuestions(tmpl.Questions),
	}
	for _, a := range tmpl.Areas {
		fc.Areas = append(fc.Areas, types.AreaCreate{
			AreaName:        a.Name,
			AreaDescription: a.Description,
			SortOrder:       a.SortOrder,
			IsMandatory:     a.Mandatory,
			Questions:       toQuestions(a.Questions),
		})
	}
	return fc, nil
}

func toQuestions(in []questionTemplate) []types.QuestionCreate {
	if len(in) == 0 {
		return nil
	}
	out := make([]types.QuestionCreate, 0, len(in))
	for i, q := range in {
		out = append(out, types.QuestionCreate{
			QuestionText:  q.Text,
			QuestionType:  types.QuestionType(q.Type),
			ScaleMinLabel: q.MinLabel,
			ScaleMaxLabel: q.MaxLabel,
			SortOrder:     i + 1,
		})
	}
	return out
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
