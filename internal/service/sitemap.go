package service

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"strconv"
	"time"

	"toonranks/internal/model"
	"toonranks/internal/repository"
)

const sitemapNS = "http://www.sitemaps.org/schemas/sitemap/0.9"

// StaticPages are the fixed front-end routes listed in the static sitemap.
var StaticPages = []string{
	"/",
	"/forum",
	"/type/MANHWA",
	"/type/MANGA",
	"/type/MANHUA",
	"/contact",
	"/about",
	"/how-rankings-work",
}

type sitemapEntry struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod"`
}

type urlSet struct {
	XMLName xml.Name       `xml:"urlset"`
	Xmlns   string         `xml:"xmlns,attr"`
	URLs    []sitemapEntry `xml:"url"`
}

type sitemapIndex struct {
	XMLName  xml.Name       `xml:"sitemapindex"`
	Xmlns    string         `xml:"xmlns,attr"`
	Sitemaps []sitemapEntry `xml:"sitemap"`
}

// SitemapService renders crawler sitemaps for the public site.
type SitemapService interface {
	// Index lists the static sitemap and every forum sitemap page.
	Index(ctx context.Context) ([]byte, error)
	// ForumPage renders one 1-based page of thread URLs.
	ForumPage(ctx context.Context, page int) ([]byte, error)
	Static(ctx context.Context) ([]byte, error)
}

type sitemapService struct {
	forum   repository.ForumRepository
	origin  string
	perFile int
	now     func() time.Time
}

// NewSitemapService builds sitemaps rooted at origin with at most perFile URLs per page.
func NewSitemapService(forum repository.ForumRepository, origin string, perFile int) SitemapService {
	if perFile < 1 {
		perFile = 50000
	}
	return &sitemapService{forum: forum, origin: origin, perFile: perFile, now: time.Now}
}

func lastMod(t time.Time) string {
	return t.UTC().Format(time.DateOnly)
}

func renderXML(v any) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("encode sitemap: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *sitemapService) pages(count int) int {
	return (count + s.perFile - 1) / s.perFile
}

func (s *sitemapService) Index(ctx context.Context) ([]byte, error) {
	stats, err := s.forum.Stats(ctx)
	if err != nil {
		return nil, err
	}

	today := lastMod(s.now())
	idx := sitemapIndex{
		Xmlns:    sitemapNS,
		Sitemaps: []sitemapEntry{{Loc: s.origin + "/sitemap-static.xml", LastMod: today}},
	}
	if stats.Count > 0 {
		forumMod := today
		if stats.LastActivity != nil {
			forumMod = lastMod(*stats.LastActivity)
		}
		for i := 1; i <= s.pages(stats.Count); i++ {
			idx.Sitemaps = append(idx.Sitemaps, sitemapEntry{
				Loc:     s.origin + "/sitemaps/forum-" + strconv.Itoa(i) + ".xml",
				LastMod: forumMod,
			})
		}
	}
	return renderXML(idx)
}

func (s *sitemapService) ForumPage(ctx context.Context, page int) ([]byte, error) {
	if page < 1 {
		return nil, ErrNotFound
	}
	stats, err := s.forum.Stats(ctx)
	if err != nil {
		return nil, err
	}
	if page > s.pages(stats.Count) {
		return nil, ErrNotFound
	}

	rows, err := s.forum.ThreadLastMods(ctx, repository.PageQuery{Limit: s.perFile, Offset: (page - 1) * s.perFile})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	set := urlSet{Xmlns: sitemapNS, URLs: make([]sitemapEntry, 0, len(rows))}
	for _, r := range rows {
		set.URLs = append(set.URLs, s.threadEntry(r))
	}
	return renderXML(set)
}

func (s *sitemapService) threadEntry(r model.ThreadLastMod) sitemapEntry {
	mod := lastMod(s.now())
	if !r.LastMod.IsZero() {
		mod = lastMod(r.LastMod)
	}
	return sitemapEntry{Loc: s.origin + "/forum/" + strconv.FormatInt(r.ID, 10), LastMod: mod}
}

func (s *sitemapService) Static(context.Context) ([]byte, error) {
	today := lastMod(s.now())
	set := urlSet{Xmlns: sitemapNS}
	for _, p := range StaticPages {
		set.URLs = append(set.URLs, sitemapEntry{Loc: s.origin + p, LastMod: today})
	}
	return renderXML(set)
}
