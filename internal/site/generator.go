package site

import (
	"bytes"
	"fmt"
	"html"
	"html/template"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/kylescorner/corner/internal/assets"
	"github.com/kylescorner/corner/internal/music"
	"github.com/kylescorner/corner/internal/progress"
	"github.com/kylescorner/corner/internal/restaurants"
)

const (
	homePage        = "home"
	restaurantsPage = "restaurants"
	musicPage       = "music"

	pagesDir = "pages"
)

var (
	shellTmpl       = template.Must(template.New("shell").Parse(shellTemplate))
	restaurantsTmpl = template.Must(template.New("restaurants").Parse(restaurantsTemplate))
	musicTmpl       = template.Must(template.New("music").Parse(musicTemplate))
)

// Generator builds the static site: hand-written pages from <SiteDir>/pages,
// the restaurant map page, the music page and the site assets.
type Generator struct {
	SiteDir        string
	OutputDir      string
	ProjectName    string
	RestaurantsCSV string
	MusicDir       string
	Years          music.YearRange
	Playlists      music.Playlists
	Include        []string
	Exclude        []string
	Reporter       progress.Reporter
	Logger         *slog.Logger
}

// NewGenerator creates a Generator with default years, asset patterns and
// no progress output.
func NewGenerator(siteDir, outputDir, projectName string) *Generator {
	return &Generator{
		SiteDir:     siteDir,
		OutputDir:   outputDir,
		ProjectName: projectName,
		Years:       music.DefaultYears(),
		Include:     assets.DefaultInclude,
		Reporter:    progress.Nop{},
		Logger:      slog.Default(),
	}
}

// shellData holds the data passed to the shell template for each page.
type shellData struct {
	Title       string
	ProjectName string
	PageName    string
	Nav         []navItem
	Styles      []string
	Scripts     []string
	Content     template.HTML
}

// page is one output page before it is wrapped in the shell.
type page struct {
	Name    string
	Title   string
	Content template.HTML
}

// Generate builds the full site. Returns the number of pages generated.
func (g *Generator) Generate() (int, error) {
	log := g.logger()
	renderer := NewRenderer()

	if err := g.checkDirs(); err != nil {
		return 0, err
	}

	sources, err := discoverPages(filepath.Join(g.SiteDir, pagesDir))
	if err != nil {
		return 0, err
	}

	var pages []page
	for name, path := range sources {
		if name == restaurantsPage || name == musicPage {
			continue
		}
		p, err := loadPage(renderer, name, path)
		if err != nil {
			return 0, fmt.Errorf("rendering %s: %w", path, err)
		}
		pages = append(pages, p)
	}
	if _, ok := sources[homePage]; !ok {
		pages = append(pages, page{
			Name:    homePage,
			Title:   titleCase(homePage),
			Content: template.HTML("<h2>" + html.EscapeString(g.ProjectName) + "</h2>"),
		})
	}

	reg, err := restaurants.LoadCSV(g.RestaurantsCSV)
	if err != nil {
		return 0, err
	}
	restPage, err := g.buildRestaurantsPage(renderer, reg, sources[restaurantsPage])
	if err != nil {
		return 0, err
	}
	pages = append(pages, restPage)

	var musicYears []int
	if g.MusicDir == "" {
		log.Warn("no music directory configured, skipping music page")
	} else if _, err := os.Stat(g.MusicDir); err != nil {
		log.Warn("music directory not found, skipping music page", "dir", g.MusicDir)
	} else {
		cat, err := music.LoadCatalog(g.MusicDir, g.Years)
		if err != nil {
			return 0, err
		}
		musicP, err := g.buildMusicPage(renderer, cat, sources[musicPage])
		if err != nil {
			return 0, err
		}
		pages = append(pages, musicP)
		for y := cat.Years.Newest; y >= cat.Years.OldestAlbum; y-- {
			musicYears = append(musicYears, y)
		}
	}
	sort.Slice(pages, func(i, j int) bool { return pages[i].Name < pages[j].Name })

	if err := os.MkdirAll(g.OutputDir, 0o755); err != nil {
		return 0, err
	}
	if err := os.WriteFile(filepath.Join(g.OutputDir, "corner.css"), []byte(cssContent), 0o644); err != nil {
		return 0, err
	}

	list, err := assets.Walk(assets.Config{RootDir: g.SiteDir, Include: g.Include, Exclude: g.Exclude})
	if err != nil {
		return 0, err
	}
	g.reporter().Begin(progress.StageAssets, len(list))
	if err := assets.Copy(list, g.OutputDir, func(a assets.Asset) { g.reporter().Step(a.RelPath) }); err != nil {
		return 0, err
	}
	present := make(map[string]bool, len(list))
	for _, a := range list {
		present[a.RelPath] = true
	}

	names := make([]string, len(pages))
	for i, p := range pages {
		names[i] = p.Name
	}

	g.reporter().Begin(progress.StagePages, len(pages))
	for _, p := range pages {
		if err := g.writePage(p, names, present); err != nil {
			return 0, fmt.Errorf("writing %s: %w", p.Name, err)
		}
		g.reporter().Step(p.Name)
	}

	home, err := os.ReadFile(filepath.Join(g.OutputDir, homePage+".html"))
	if err != nil {
		return 0, err
	}
	if err := os.WriteFile(filepath.Join(g.OutputDir, "index.html"), home, 0o644); err != nil {
		return 0, err
	}

	m := Manifest{
		Project:     g.ProjectName,
		Pages:       names,
		Assets:      list,
		Restaurants: reg.Len(),
		FilterBits:  restaurants.NewFilterSet(reg.Cuisines()).Len(),
		MusicYears:  musicYears,
	}
	if err := WriteManifest(m, filepath.Join(g.OutputDir, ManifestFile)); err != nil {
		return 0, err
	}

	g.reporter().Done(progress.Summary{
		Pages:       len(pages),
		Assets:      len(list),
		AssetBytes:  assets.TotalSize(list),
		Restaurants: reg.Len(),
		MusicYears:  len(musicYears),
	})
	log.Info("site generated", "pages", len(pages), "assets", len(list), "restaurants", reg.Len())
	return len(pages), nil
}

func (g *Generator) buildRestaurantsPage(r *Renderer, reg *restaurants.Registry, introPath string) (page, error) {
	intro, err := loadIntro(r, introPath)
	if err != nil {
		return page{}, err
	}
	view, warnings, err := buildRestaurantsView(reg, r, intro)
	if err != nil {
		return page{}, err
	}
	for _, w := range warnings {
		g.logger().Warn("ignoring restaurant coordinates", "detail", w)
	}

	var buf bytes.Buffer
	if err := restaurantsTmpl.Execute(&buf, view); err != nil {
		return page{}, fmt.Errorf("rendering restaurants: %w", err)
	}
	return page{Name: restaurantsPage, Title: titleCase(restaurantsPage), Content: template.HTML(buf.String())}, nil
}

func (g *Generator) buildMusicPage(r *Renderer, cat *music.Catalog, introPath string) (page, error) {
	intro, err := loadIntro(r, introPath)
	if err != nil {
		return page{}, err
	}

	var buf bytes.Buffer
	buf.WriteString(string(intro))
	if err := musicTmpl.Execute(&buf, buildMusicView(cat, g.Playlists)); err != nil {
		return page{}, fmt.Errorf("rendering music: %w", err)
	}
	return page{Name: musicPage, Title: titleCase(musicPage), Content: template.HTML(buf.String())}, nil
}

// writePage wraps p in the shell. A page picks up css/<name>.css and
// js/<name>.js when the site has them.
func (g *Generator) writePage(p page, names []string, present map[string]bool) error {
	data := shellData{
		Title:       p.Title,
		ProjectName: g.ProjectName,
		PageName:    p.Name,
		Nav:         buildNav(names, p.Name),
		Content:     p.Content,
	}
	if css := "css/" + p.Name + ".css"; present[css] {
		data.Styles = append(data.Styles, css)
	}
	if js := "js/" + p.Name + ".js"; present[js] {
		data.Scripts = append(data.Scripts, js)
	}

	f, err := os.Create(filepath.Join(g.OutputDir, p.Name+".html"))
	if err != nil {
		return err
	}
	defer f.Close()

	return shellTmpl.Execute(f, data)
}

// checkDirs refuses to build a site into its own source directory.
func (g *Generator) checkDirs() error {
	src, err := filepath.Abs(g.SiteDir)
	if err != nil {
		return err
	}
	out, err := filepath.Abs(g.OutputDir)
	if err != nil {
		return err
	}
	if src == out {
		return fmt.Errorf("output dir %s: %w", g.OutputDir, assets.ErrSameFile)
	}
	return nil
}

func (g *Generator) logger() *slog.Logger {
	if g.Logger == nil {
		return slog.Default()
	}
	return g.Logger
}

func (g *Generator) reporter() progress.Reporter {
	if g.Reporter == nil {
		return progress.Nop{}
	}
	return g.Reporter
}

// discoverPages maps page names to their .html or .md source. A missing
// pages directory yields no pages.
func discoverPages(dir string) (map[string]string, error) {
	out := make(map[string]string)
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return out, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading pages dir: %w", err)
	}

	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := filepath.Ext(e.Name())
		if ext != ".html" && ext != ".md" {
			continue
		}
		name := strings.TrimSuffix(e.Name(), ext)
		if prev, ok := out[name]; ok {
			return nil, fmt.Errorf("page %q defined twice: %s and %s", name, filepath.Base(prev), e.Name())
		}
		out[name] = filepath.Join(dir, e.Name())
	}
	return out, nil
}

// loadPage reads a hand-written page. HTML pages are used as written;
// markdown pages are converted and sanitized.
func loadPage(r *Renderer, name, path string) (page, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return page{}, err
	}
	if filepath.Ext(path) == ".html" {
		return page{Name: name, Title: titleCase(name), Content: template.HTML(content)}, nil
	}

	out, err := r.Render(content)
	if err != nil {
		return page{}, err
	}
	return page{Name: name, Title: extractTitle(string(content), name), Content: rewriteMDLinks(out)}, nil
}

func loadIntro(r *Renderer, path string) (template.HTML, error) {
	if path == "" {
		return "", nil
	}
	p, err := loadPage(r, "", path)
	if err != nil {
		return "", fmt.Errorf("rendering %s: %w", path, err)
	}
	return p.Content, nil
}

// extractTitle pulls the first # heading from markdown content, or falls back to the page name.
func extractTitle(content, name string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "# ") {
			return strings.TrimPrefix(line, "# ")
		}
	}
	return titleCase(name)
}

// rewriteMDLinks changes links between markdown pages into links to the
// generated .html files.
func rewriteMDLinks(content template.HTML) template.HTML {
	s := strings.ReplaceAll(string(content), `.md"`, `.html"`)
	s = strings.ReplaceAll(s, `.md#`, `.html#`)
	return template.HTML(s)
}
