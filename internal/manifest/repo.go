package manifest

import (
	"encoding/json"
	"fmt"
)

// PostRow represents a row in the posts table.
type PostRow struct {
	Filename string
	Note     string
	Title    string
	Date     string
	Tags     []string
	Checksum string
}

// ImageRow represents an image written alongside a post.
type ImageRow struct {
	Filename string
	Checksum string
}

// Reset drops every recorded post and image.
func (db *DB) Reset() error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("manifest: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.Exec(`DELETE FROM images`); err != nil {
		return fmt.Errorf("manifest: reset images: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM posts`); err != nil {
		return fmt.Errorf("manifest: reset posts: %w", err)
	}
	return tx.Commit()
}

// RecordPost inserts or replaces a post and its images within a transaction.
func (db *DB) RecordPost(p PostRow, images []ImageRow) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("manifest: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	tagsJSON, _ := json.Marshal(tags)

	_, err = tx.Exec(`
		INSERT INTO posts (filename, note, title, date, tags, checksum)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(filename) DO UPDATE SET
			note     = excluded.note,
			title    = excluded.title,
			date     = excluded.date,
			tags     = excluded.tags,
			checksum = excluded.checksum
	`, p.Filename, p.Note, p.Title, p.Date, string(tagsJSON), p.Checksum)
	if err != nil {
		return fmt.Errorf("manifest: upsert post: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM images WHERE post = ?`, p.Filename); err != nil {
		return fmt.Errorf("manifest: clear images: %w", err)
	}
	if len(images) > 0 {
		stmt, err := tx.Prepare(`INSERT OR IGNORE INTO images (filename, post, checksum) VALUES (?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("manifest: prepare image insert: %w", err)
		}
		defer stmt.Close()
		for _, img := range images {
			if _, err := stmt.Exec(img.Filename, p.Filename, img.Checksum); err != nil {
				return fmt.Errorf("manifest: insert image: %w", err)
			}
		}
	}

	return tx.Commit()
}

// ListPosts returns recorded posts ordered by date then filename. A non-empty
// tag restricts the result to posts carrying it.
func (db *DB) ListPosts(tag string) ([]PostRow, error) {
	query := `SELECT filename, note, title, date, tags, checksum FROM posts`
	var args []any
	if tag != "" {
		query += ` WHERE EXISTS (SELECT 1 FROM json_each(posts.tags) WHERE json_each.value = ?)`
		args = append(args, tag)
	}
	query += ` ORDER BY date, filename`

	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("manifest: list posts: %w", err)
	}
	defer rows.Close()

	var out []PostRow
	for rows.Next() {
		var (
			p        PostRow
			tagsJSON string
		)
		if err := rows.Scan(&p.Filename, &p.Note, &p.Title, &p.Date, &tagsJSON, &p.Checksum); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(tagsJSON), &p.Tags); err != nil {
			return nil, fmt.Errorf("manifest: decode tags of %s: %w", p.Filename, err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Images returns the images recorded for a post.
func (db *DB) Images(post string) ([]ImageRow, error) {
	rows, err := db.conn.Query(`SELECT filename, checksum FROM images WHERE post = ? ORDER BY filename`, post)
	if err != nil {
		return nil, fmt.Errorf("manifest: images: %w", err)
	}
	defer rows.Close()

	var out []ImageRow
	for rows.Next() {
		var img ImageRow
		if err := rows.Scan(&img.Filename, &img.Checksum); err != nil {
			return nil, err
		}
		out = append(out, img)
	}
	return out, rows.Err()
}
