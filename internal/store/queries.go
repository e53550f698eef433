package store

// SQL query constants organized by entity.
// All SQL lives here; SQLiteStore methods reference these constants.

// Item queries.
const (
	queryInsertListing = `
		INSERT INTO items (item_id, product_type, title, sold, price, url, first_seen_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (item_id) DO NOTHING`

	queryListUnalerted = `
		SELECT item_id, product_type, title, sold, price, url, first_seen_at, alert_sent_dt
		FROM items
		WHERE product_type = ?
		  AND alert_sent_dt IS NULL
		  AND sold = 0
		ORDER BY first_seen_at, item_id`

	queryMarkAlerted = `
		UPDATE items SET alert_sent_dt = ? WHERE item_id = ?`

	queryGetItem = `
		SELECT item_id, product_type, title, sold, price, url, first_seen_at, alert_sent_dt
		FROM items
		WHERE item_id = ?`

	queryListItems = `
		SELECT item_id, product_type, title, sold, price, url, first_seen_at, alert_sent_dt
		FROM items
		WHERE (?1 = '' OR product_type = ?1)
		ORDER BY first_seen_at DESC, item_id
		LIMIT ?2`

	queryCountItems = `
		SELECT COUNT(*),
		       SUM(CASE WHEN alert_sent_dt IS NULL THEN 1 ELSE 0 END)
		FROM items`
)

// Job run queries.
const (
	queryInsertJobRun = `
		INSERT INTO job_runs (id, started_at, status)
		VALUES (?, ?, ?)`

	queryCompleteJobRun = `
		UPDATE job_runs SET
			completed_at = ?,
			status = ?,
			error_text = ?,
			listings_seen = ?,
			new_items = ?,
			alerts_sent = ?
		WHERE id = ?`

	queryListJobRuns = `
		SELECT id, started_at, completed_at, status, error_text,
		       listings_seen, new_items, alerts_sent
		FROM job_runs
		ORDER BY started_at DESC
		LIMIT ?`
)
