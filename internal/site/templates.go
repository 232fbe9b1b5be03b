package site

// shellTemplate wraps every page with the tab navigation.
const shellTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>{{.Title}} | {{.ProjectName}}</title>
  <link rel="stylesheet" href="corner.css">
  {{range .Styles}}<link rel="stylesheet" href="{{.}}">
  {{end}}
</head>
<body data-page="{{.PageName}}">
  <header class="site-header">
    <h1 class="site-title"><a href="index.html">{{.ProjectName}}</a></h1>
    <nav class="tabs">
      {{range .Nav}}<a class="tab{{if .Active}} active{{end}}" href="{{.Href}}" data-page="{{.Name}}">{{.Title}}</a>
      {{end}}
    </nav>
  </header>
  <main class="page-content" id="page-{{.PageName}}">
    {{.Content}}
  </main>
  {{range .Scripts}}<script type="module" src="{{.}}"></script>
  {{end}}
</body>
</html>
`

// restaurantsTemplate renders the restaurant table, filter menus and map
// container. Checkbox data-bit values are share URL bit positions.
const restaurantsTemplate = `<section class="restaurants" data-registry-size="{{.Size}}" data-filter-count="{{.FilterCount}}">
  {{if .Intro}}<div class="intro">{{.Intro}}</div>{{end}}
  <div class="filters">
    {{range .Menus}}<div class="multi-select" data-menu="{{.Name}}">
      <button class="multi-label" type="button">{{.Title}}</button>
      <div class="multi-options">
        {{range .Options}}<div class="multi-option{{if .IsAny}} multi-any{{end}}"><label><input type="checkbox" data-bit="{{.Bit}}" value="{{.Label}}"{{if .Checked}} checked{{end}}> {{.Label}}</label></div>
        {{end}}
      </div>
    </div>
    {{end}}
  </div>
  <div class="actions">
    <button id="random-button" type="button">Pick a random restaurant</button>
    <button id="share-button" type="button">Copy share link</button>
    <span id="random-display" class="hidden"></span>
  </div>
  <div id="map"></div>
  <table id="restaurant-table">
    <thead>
      <tr>
        <th data-column="shown">Show</th>
        <th data-column="name">Name</th>
        <th data-column="cuisine">Cuisine</th>
        <th data-column="visited">Visited</th>
        <th>Notes</th>
      </tr>
    </thead>
    <tbody id="restaurant-table-body">
      {{range .Rows}}<tr data-index="{{.Index}}" data-key="{{.Key}}" data-marker="{{.Marker}}" data-rating="{{.Rating}}"{{if .HasGPS}} data-lat="{{.Lat}}" data-lng="{{.Lng}}"{{end}}>
        <td><input type="checkbox" class="shown-box"{{if .Shown}} checked{{end}}></td>
        <td class="name">{{if .URL}}<a href="{{.URL}}" rel="nofollow">{{.Name}}</a>{{else}}{{.Name}}{{end}}</td>
        <td class="cuisine">{{.Cuisine}}</td>
        <td class="visited">{{.Visited}}</td>
        <td class="notes">{{.Notes}}</td>
      </tr>
      {{end}}
    </tbody>
  </table>
</section>
`

// musicTemplate renders one album grid and song table per year.
const musicTemplate = `<section class="music" data-current-year="{{.Current}}">
  <div class="list-selector">
    <button id="albums-button" class="active" type="button">Albums</button>
    <button id="songs-button" type="button">Songs</button>
    <input type="text" id="searchbox" placeholder="Search albums and songs" autocomplete="off">
  </div>
  <div class="year-selector">
    <button id="year-display-decrease" type="button"{{if not .CanDecrease}} disabled{{end}}>&lsaquo;</button>
    {{range .Buttons}}<button class="year-button{{if .Active}} active{{end}}" type="button"{{if .Disabled}} disabled{{end}}>{{.Year}}</button>
    {{end}}
    <button id="year-display-increase" type="button"{{if not .CanIncrease}} disabled{{end}}>&rsaquo;</button>
  </div>
  <h2 id="music-window-title">Albums {{.Current}}</h2>
  <div id="search-results" class="hidden">
    <div id="search-grid" class="album-grid hidden"></div>
    <table id="search-table" class="song-table hidden"><tbody></tbody></table>
  </div>
  {{range .Years}}<div class="album-grid{{if not .Current}} hidden{{end}}" id="album-grid-{{.Year}}">
    {{range .Albums}}<div class="album-block {{.Medal}}">
      <img class="album-img" src="{{.ImagePath}}" width="135" height="135" alt="{{.Title}}" loading="lazy">
      <div class="album-name"><i>{{.Title}}</i></div>
      <div class="album-artist"><b>By: </b><u>{{.Artist}}</u></div>
      <div class="album-genre"><b>Genre: </b>{{.Genre}}</div>
      <div class="album-favorites hidden">{{.FavoriteSongs}}</div>
      <div class="album-year hidden"><b>Release year: </b>{{.Year}}</div>
    </div>
    {{end}}
  </div>
  {{if .Songs}}<table class="song-table hidden" id="song-table-{{.Year}}">
    <thead class="song-table-header">
      <tr class="song-row"><th class="song-name">Song</th><th class="song-artist">Artist</th><th class="song-album">Album</th><th class="song-genre">Genre</th><th class="song-year hidden">Year</th></tr>
    </thead>
    <tbody>
      {{range .Songs}}<tr class="song-row"><td class="song-name">{{.Name}}</td><td class="song-artist">{{.Artist}}</td><td class="song-album">{{.Album}}</td><td class="song-genre">{{.Genre}}</td><td class="song-year hidden">{{.Year}}</td></tr>
      {{end}}
    </tbody>
  </table>{{end}}
  {{end}}
  <ul class="playlists">
    {{range .Playlists}}<li><a class="playlist-link" data-list="{{.List}}" data-year="{{.Year}}" href="{{.URL}}">{{.List}} {{.Year}}</a></li>
    {{end}}
  </ul>
</section>
`

// cssContent styles the generated components. Site stylesheets load after
// it and may override any rule.
const cssContent = `:root {
  --gold: #d4af37;
  --silver: #a8a9ad;
  --bronze: #cd7f32;
  --highlight: #fff3a3;
}

.hidden { display: none !important; }

.tabs { display: flex; gap: 0.5rem; }
.tab { padding: 0.4rem 0.8rem; text-decoration: none; }
.tab.active { font-weight: bold; border-bottom: 2px solid currentColor; }

.multi-select { display: inline-block; position: relative; margin-right: 0.5rem; }
.multi-option label { white-space: nowrap; }
.multi-any { border-bottom: 1px solid #ddd; }

#map { height: 420px; margin: 1rem 0; }
#restaurant-table { width: 100%; border-collapse: collapse; }
#restaurant-table th[data-column] { cursor: pointer; }
#restaurant-table td { padding: 0.25rem 0.5rem; border-bottom: 1px solid #eee; }
tr.random-pick { outline: 2px solid var(--gold); }

.album-grid { display: flex; flex-wrap: wrap; gap: 1rem; }
.album-block { width: 150px; padding: 0.5rem; border: 3px solid transparent; }
.album-block.gold { border-color: var(--gold); }
.album-block.silver { border-color: var(--silver); }
.album-block.bronze { border-color: var(--bronze); }
.song-table { width: 100%; border-collapse: collapse; }
.highlight { background: var(--highlight); }
.year-button.active, .list-selector .active { font-weight: bold; }
`
