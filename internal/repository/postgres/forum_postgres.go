package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"toonranks/internal/model"
	"toonranks/internal/repository"
)

// ForumPostgres is a PostgreSQL implementation of repository.ForumRepository.
type ForumPostgres struct {
	db *sql.DB
}

// NewForumPostgres creates a new ForumPostgres repository.
func NewForumPostgres(db *sql.DB) *ForumPostgres {
	return &ForumPostgres{db: db}
}

var _ repository.ForumRepository = (*ForumPostgres)(nil)

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

const threadSelect = `
	SELECT t.id, t.title, t.author_id, u.username, t.created_at, t.updated_at,
	       t.post_count, t.last_post_at, t.locked, t.latest_first
	FROM forum_threads t
	LEFT JOIN users u ON u.id = t.author_id`

const postSelect = `
	SELECT p.id, p.thread_id, p.author_id, u.username, p.parent_id,
	       p.content_markdown, p.created_at, p.updated_at
	FROM forum_posts p
	LEFT JOIN users u ON u.id = p.author_id`

func scanThread(row scanner) (*model.ForumThread, error) {
	var (
		t        model.ForumThread
		authorID sql.NullInt64
		username sql.NullString
	)
	if err := row.Scan(&t.ID, &t.Title, &authorID, &username, &t.CreatedAt, &t.UpdatedAt,
		&t.PostCount, &t.LastPostAt, &t.Locked, &t.LatestFirst); err != nil {
		return nil, err
	}
	t.AuthorID = int64Ptr(authorID)
	t.AuthorUsername = stringPtr(username)
	t.SeriesRefs = []model.SeriesRef{}
	return &t, nil
}

func scanPost(row scanner) (*model.ForumPost, error) {
	var (
		p        model.ForumPost
		authorID sql.NullInt64
		username sql.NullString
		parentID sql.NullInt64
	)
	if err := row.Scan(&p.ID, &p.ThreadID, &authorID, &username, &parentID,
		&p.ContentMarkdown, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.AuthorID = int64Ptr(authorID)
	p.AuthorUsername = stringPtr(username)
	p.ParentID = int64Ptr(parentID)
	p.SeriesRefs = []model.SeriesRef{}
	return &p, nil
}

// int64Array renders ids as a PostgreSQL array literal for ANY($n::bigint[]).
func int64Array(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return "{" + strings.Join(parts, ",") + "}"
}

// ListThreads returns a page of threads by most recent activity.
func (r *ForumPostgres) ListThreads(ctx context.Context, q string, pq repository.PageQuery) ([]model.ForumThread, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if q = strings.TrimSpace(q); q != "" {
		rows, err = r.db.QueryContext(ctx,
			threadSelect+` WHERE t.title ILIKE $1 ORDER BY t.updated_at DESC, t.id DESC LIMIT $2 OFFSET $3`,
			"%"+q+"%", pq.Limit, pq.Offset)
	} else {
		rows, err = r.db.QueryContext(ctx,
			threadSelect+` ORDER BY t.updated_at DESC, t.id DESC LIMIT $1 OFFSET $2`,
			pq.Limit, pq.Offset)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	threads := make([]model.ForumThread, 0)
	for rows.Next() {
		t, err := scanThread(rows)
		if err != nil {
			return nil, err
		}
		threads = append(threads, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(threads) == 0 {
		return threads, nil
	}

	ids := make([]int64, len(threads))
	for i := range threads {
		ids[i] = threads[i].ID
	}
	refs, err := headerRefs(ctx, r.db, ids)
	if err != nil {
		return nil, err
	}
	for i := range threads {
		if rs, ok := refs[threads[i].ID]; ok {
			threads[i].SeriesRefs = rs
		}
	}
	return threads, nil
}

// CreateThread opens a thread with its first post and header series refs.
// The author row is locked while counting so parallel requests cannot both
// slip under the cap.
func (r *ForumPostgres) CreateThread(ctx context.Context, nt repository.NewThread) (*model.ForumThread, error) {
	var threadID int64
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		if nt.MaxThreads > 0 {
			if _, err := tx.ExecContext(ctx, `SELECT 1 FROM users WHERE id = $1 FOR UPDATE`, nt.AuthorID); err != nil {
				return err
			}
			var n int
			if err := tx.QueryRowContext(ctx,
				`SELECT COUNT(*) FROM forum_threads WHERE author_id = $1`, nt.AuthorID,
			).Scan(&n); err != nil {
				return err
			}
			if n >= nt.MaxThreads {
				return repository.ErrThreadLimit
			}
		}
		if err := tx.QueryRowContext(ctx, `
			INSERT INTO forum_threads (title, author_id, post_count, last_post_at)
			VALUES ($1, $2, 1, now())
			RETURNING id`, nt.Title, nt.AuthorID,
		).Scan(&threadID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO forum_posts (thread_id, author_id, content_markdown)
			VALUES ($1, $2, $3)`, threadID, nt.AuthorID, nt.FirstPost,
		); err != nil {
			return err
		}
		return insertRefs(ctx, tx, threadID, nil, nt.SeriesIDs)
	})
	if err != nil {
		return nil, err
	}
	return r.FindThread(ctx, threadID)
}

// insertRefs links existing series to a thread header (postID nil) or a post.
// Unknown series ids are skipped.
func insertRefs(ctx context.Context, q queryer, threadID int64, postID *int64, seriesIDs []int64) error {
	if len(seriesIDs) == 0 {
		return nil
	}
	_, err := q.ExecContext(ctx, `
		INSERT INTO forum_series_refs (thread_id, post_id, series_id)
		SELECT $1, $2::bigint, s.id FROM series s WHERE s.id = ANY($3::bigint[])`,
		threadID, nullInt64(postID), int64Array(seriesIDs))
	return err
}

func headerRefs(ctx context.Context, q queryer, threadIDs []int64) (map[int64][]model.SeriesRef, error) {
	return loadRefs(ctx, q, `
		SELECT r.thread_id, s.id, s.title, s.cover_url, s.type, s.status
		FROM forum_series_refs r
		JOIN series s ON s.id = r.series_id
		WHERE r.thread_id = ANY($1::bigint[]) AND r.post_id IS NULL
		ORDER BY r.id`, threadIDs)
}

func postRefs(ctx context.Context, q queryer, postIDs []int64) (map[int64][]model.SeriesRef, error) {
	return loadRefs(ctx, q, `
		SELECT r.post_id, s.id, s.title, s.cover_url, s.type, s.status
		FROM forum_series_refs r
		JOIN series s ON s.id = r.series_id
		WHERE r.post_id = ANY($1::bigint[])
		ORDER BY r.id`, postIDs)
}

func loadRefs(ctx context.Context, q queryer, query string, ids []int64) (map[int64][]model.SeriesRef, error) {
	rows, err := q.QueryContext(ctx, query, int64Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[int64][]model.SeriesRef)
	for rows.Next() {
		var (
			owner  int64
			ref    model.SeriesRef
			typ    string
			status sql.NullString
		)
		if err := rows.Scan(&owner, &ref.SeriesID, &ref.Title, &ref.CoverURL, &typ, &status); err != nil {
			return nil, err
		}
		ref.Type = model.SeriesType(typ)
		ref.Status = seriesStatusPtr(status)
		out[owner] = append(out[owner], ref)
	}
	return out, rows.Err()
}

// FindThread fetches a thread with its header refs.
func (r *ForumPostgres) FindThread(ctx context.Context, id int64) (*model.ForumThread, error) {
	t, err := scanThread(r.db.QueryRowContext(ctx, threadSelect+` WHERE t.id = $1`, id))
	if err != nil {
		return nil, err
	}
	refs, err := headerRefs(ctx, r.db, []int64{id})
	if err != nil {
		return nil, err
	}
	if rs, ok := refs[id]; ok {
		t.SeriesRefs = rs
	}
	return t, nil
}

// ListPosts returns every post of a thread with its series refs.
func (r *ForumPostgres) ListPosts(ctx context.Context, threadID int64, newestFirst bool) ([]model.ForumPost, error) {
	order := "ASC"
	if newestFirst {
		order = "DESC"
	}
	rows, err := r.db.QueryContext(ctx,
		postSelect+fmt.Sprintf(` WHERE p.thread_id = $1 ORDER BY p.created_at %[1]s, p.id %[1]s`, order),
		threadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := make([]model.ForumPost, 0)
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return posts, nil
	}

	ids := make([]int64, len(posts))
	for i := range posts {
		ids[i] = posts[i].ID
	}
	refs, err := postRefs(ctx, r.db, ids)
	if err != nil {
		return nil, err
	}
	for i := range posts {
		if rs, ok := refs[posts[i].ID]; ok {
			posts[i].SeriesRefs = rs
		}
	}
	return posts, nil
}

// FindPost fetches a post with its series refs.
func (r *ForumPostgres) FindPost(ctx context.Context, id int64) (*model.ForumPost, error) {
	return findPost(ctx, r.db, id)
}

func findPost(ctx context.Context, q queryer, id int64) (*model.ForumPost, error) {
	p, err := scanPost(q.QueryRowContext(ctx, postSelect+` WHERE p.id = $1`, id))
	if err != nil {
		return nil, err
	}
	refs, err := postRefs(ctx, q, []int64{id})
	if err != nil {
		return nil, err
	}
	if rs, ok := refs[id]; ok {
		p.SeriesRefs = rs
	}
	return p, nil
}

// lockThread takes the thread row for the rest of the transaction and
// reports whether it is locked.
func lockThread(ctx context.Context, tx *sql.Tx, threadID int64) (bool, error) {
	var locked bool
	err := tx.QueryRowContext(ctx,
		`SELECT locked FROM forum_threads WHERE id = $1 FOR UPDATE`, threadID).Scan(&locked)
	return locked, err
}

// CreatePost inserts a reply and bumps the thread counters.
func (r *ForumPostgres) CreatePost(ctx context.Context, np repository.NewPost) (*model.ForumPost, error) {
	var post *model.ForumPost
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		locked, err := lockThread(ctx, tx, np.ThreadID)
		if err != nil {
			return err
		}
		if locked && !np.AllowLocked {
			return repository.ErrThreadLocked
		}
		var postID int64
		if err := tx.QueryRowContext(ctx, `
			INSERT INTO forum_posts (thread_id, author_id, parent_id, content_markdown)
			VALUES ($1, $2, $3, $4)
			RETURNING id`, np.ThreadID, np.AuthorID, nullInt64(np.ParentID), np.Content,
		).Scan(&postID); err != nil {
			return err
		}
		if err := insertRefs(ctx, tx, np.ThreadID, &postID, np.SeriesIDs); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
			UPDATE forum_threads
			SET post_count = post_count + 1, last_post_at = now(), updated_at = now()
			WHERE id = $1`, np.ThreadID,
		); err != nil {
			return err
		}
		p, err := findPost(ctx, tx, postID)
		if err != nil {
			return err
		}
		post = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return post, nil
}

// UpdatePost replaces the content and series refs of a post.
func (r *ForumPostgres) UpdatePost(ctx context.Context, postID int64, content string, seriesIDs []int64) (*model.ForumPost, error) {
	var post *model.ForumPost
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		var threadID int64
		if err := tx.QueryRowContext(ctx, `
			UPDATE forum_posts SET content_markdown = $2, updated_at = now()
			WHERE id = $1
			RETURNING thread_id`, postID, content,
		).Scan(&threadID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM forum_series_refs WHERE post_id = $1`, postID); err != nil {
			return err
		}
		if err := insertRefs(ctx, tx, threadID, &postID, seriesIDs); err != nil {
			return err
		}
		p, err := findPost(ctx, tx, postID)
		if err != nil {
			return err
		}
		post = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return post, nil
}

// UpdateThread applies the non-nil fields of u. Content changes bump updated_at;
// lock and ordering flags do not.
func (r *ForumPostgres) UpdateThread(ctx context.Context, threadID int64, u repository.ThreadUpdate) (*model.ForumThread, error) {
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		var (
			sets []string
			args = []any{threadID}
		)
		if u.Title != nil {
			args = append(args, *u.Title)
			sets = append(sets, fmt.Sprintf("title = $%d", len(args)))
		}
		if u.Locked != nil {
			args = append(args, *u.Locked)
			sets = append(sets, fmt.Sprintf("locked = $%d", len(args)))
		}
		if u.LatestFirst != nil {
			args = append(args, *u.LatestFirst)
			sets = append(sets, fmt.Sprintf("latest_first = $%d", len(args)))
		}
		if u.Title != nil || u.FirstPost != nil || u.SeriesIDs != nil {
			sets = append(sets, "updated_at = now()")
		}
		if len(sets) > 0 {
			res, err := tx.ExecContext(ctx,
				`UPDATE forum_threads SET `+strings.Join(sets, ", ")+` WHERE id = $1`, args...)
			if err != nil {
				return err
			}
			if err := requireAffected(res); err != nil {
				return err
			}
		}

		if u.FirstPost != nil {
			if _, err := tx.ExecContext(ctx, `
				UPDATE forum_posts SET content_markdown = $2, updated_at = now()
				WHERE id = (
					SELECT id FROM forum_posts WHERE thread_id = $1
					ORDER BY created_at ASC, id ASC LIMIT 1
				)`, threadID, *u.FirstPost,
			); err != nil {
				return err
			}
		}

		if u.SeriesIDs != nil {
			if _, err := tx.ExecContext(ctx,
				`DELETE FROM forum_series_refs WHERE thread_id = $1 AND post_id IS NULL`, threadID,
			); err != nil {
				return err
			}
			if err := insertRefs(ctx, tx, threadID, nil, *u.SeriesIDs); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.FindThread(ctx, threadID)
}

// DeletePost removes a post (replies cascade) and recomputes the thread counters.
func (r *ForumPostgres) DeletePost(ctx context.Context, threadID, postID int64) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := lockThread(ctx, tx, threadID); err != nil {
			return err
		}
		var first int64
		if err := tx.QueryRowContext(ctx,
			`SELECT id FROM forum_posts WHERE thread_id = $1 ORDER BY created_at ASC, id ASC LIMIT 1`,
			threadID,
		).Scan(&first); err != nil {
			return err
		}
		if first == postID {
			return repository.ErrOpeningPost
		}
		res, err := tx.ExecContext(ctx,
			`DELETE FROM forum_posts WHERE id = $1 AND thread_id = $2`, postID, threadID)
		if err != nil {
			return err
		}
		if err := requireAffected(res); err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `
			UPDATE forum_threads t
			SET post_count = (SELECT COUNT(*) FROM forum_posts p WHERE p.thread_id = t.id),
			    last_post_at = COALESCE((SELECT MAX(p.created_at) FROM forum_posts p WHERE p.thread_id = t.id), t.created_at)
			WHERE t.id = $1`, threadID)
		return err
	})
}

// DeleteThread removes a thread; posts and refs cascade.
func (r *ForumPostgres) DeleteThread(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM forum_threads WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// Stats returns the thread count and the most recent forum activity.
func (r *ForumPostgres) Stats(ctx context.Context) (repository.ThreadStats, error) {
	var (
		st   repository.ThreadStats
		last sql.NullTime
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*), MAX(COALESCE(last_post_at, updated_at)) FROM forum_threads`,
	).Scan(&st.Count, &last)
	if err != nil {
		return st, err
	}
	if last.Valid {
		t := last.Time
		st.LastActivity = &t
	}
	return st, nil
}

// ThreadLastMods returns one page of thread ids with their last activity.
func (r *ForumPostgres) ThreadLastMods(ctx context.Context, pq repository.PageQuery) ([]model.ThreadLastMod, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, COALESCE(last_post_at, updated_at)
		FROM forum_threads
		ORDER BY id ASC
		LIMIT $1 OFFSET $2`, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.ThreadLastMod, 0)
	for rows.Next() {
		var lm model.ThreadLastMod
		if err := rows.Scan(&lm.ID, &lm.LastMod); err != nil {
			return nil, err
		}
		out = append(out, lm)
	}
	return out, rows.Err()
}
