package storage

// schema holds the full table set. Dates are YYYY-MM-DD text and timestamps
// RFC 3339 text so rows scan into plain strings.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS content_pillars (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE,
		description TEXT,
		color_hex TEXT,
		created_at TEXT DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS scripts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		body TEXT NOT NULL,
		script_type TEXT NOT NULL CHECK(script_type IN ('influencer_reels', 'ad_reels', 'voiceover_reels', 'therapist_scripts', 'carousel_posts')),
		pillar_id INTEGER REFERENCES content_pillars(id),
		status TEXT NOT NULL DEFAULT 'backlog' CHECK(status IN ('backlog', 'todo', 'completed')),
		notes TEXT,
		created_at TEXT DEFAULT CURRENT_TIMESTAMP,
		updated_at TEXT DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS content_calendar (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		scheduled_date TEXT NOT NULL,
		scheduled_time TEXT,
		platform TEXT NOT NULL CHECK(platform IN ('instagram', 'facebook', 'both')),
		content_type TEXT NOT NULL CHECK(content_type IN ('still_image', 'ugc_video', 'therapist_video', 'carousel', 'story', 'reel')),
		pillar_id INTEGER REFERENCES content_pillars(id),
		script_id INTEGER REFERENCES scripts(id),
		caption TEXT,
		hashtags TEXT,
		media_path TEXT,
		status TEXT NOT NULL DEFAULT 'planned' CHECK(status IN ('planned', 'created', 'reviewed', 'scheduled', 'published')),
		meta_post_id TEXT,
		notes TEXT,
		created_at TEXT DEFAULT CURRENT_TIMESTAMP,
		updated_at TEXT DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS idea_bank (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		idea TEXT NOT NULL,
		pillar_id INTEGER REFERENCES content_pillars(id),
		content_type TEXT,
		inspiration_source TEXT,
		inspiration_url TEXT,
		priority TEXT DEFAULT 'medium' CHECK(priority IN ('low', 'medium', 'high')),
		status TEXT DEFAULT 'new' CHECK(status IN ('new', 'developing', 'used', 'rejected')),
		created_at TEXT DEFAULT CURRENT_TIMESTAMP,
		updated_at TEXT DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS posts_performance (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		calendar_id INTEGER REFERENCES content_calendar(id),
		meta_post_id TEXT NOT NULL,
		platform TEXT NOT NULL CHECK(platform IN ('instagram', 'facebook')),
		post_url TEXT,
		published_at TEXT,
		content_type TEXT,
		reach INTEGER DEFAULT 0,
		impressions INTEGER DEFAULT 0,
		likes INTEGER DEFAULT 0,
		comments INTEGER DEFAULT 0,
		shares INTEGER DEFAULT 0,
		saves INTEGER DEFAULT 0,
		video_views INTEGER DEFAULT 0,
		engagement_rate REAL DEFAULT 0.0,
		fetched_at TEXT DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS account_snapshots (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		platform TEXT NOT NULL CHECK(platform IN ('instagram', 'facebook')),
		snapshot_date TEXT NOT NULL,
		followers INTEGER,
		following INTEGER,
		total_posts INTEGER,
		reach_period INTEGER,
		impressions_period INTEGER,
		profile_views_period INTEGER,
		website_clicks_period INTEGER,
		created_at TEXT DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(platform, snapshot_date)
	)`,
	`CREATE TABLE IF NOT EXISTS competitors (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		handle TEXT NOT NULL UNIQUE,
		platform TEXT NOT NULL DEFAULT 'instagram' CHECK(platform IN ('instagram', 'facebook', 'both')),
		profile_url TEXT,
		notes TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS competitor_snapshots (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		competitor_id INTEGER NOT NULL REFERENCES competitors(id) ON DELETE CASCADE,
		snapshot_date TEXT NOT NULL,
		followers INTEGER,
		following INTEGER,
		total_posts INTEGER,
		bio TEXT,
		created_at TEXT DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(competitor_id, snapshot_date)
	)`,
	`CREATE TABLE IF NOT EXISTS competitor_posts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		competitor_id INTEGER NOT NULL REFERENCES competitors(id) ON DELETE CASCADE,
		post_url TEXT,
		posted_at TEXT,
		content_type TEXT,
		caption_snippet TEXT,
		likes INTEGER DEFAULT 0,
		comments INTEGER DEFAULT 0,
		estimated_engagement_rate REAL,
		content_theme TEXT,
		notes TEXT,
		is_notable INTEGER DEFAULT 0,
		fetched_at TEXT DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_competitor_posts_url ON competitor_posts(competitor_id, post_url)`,
	`CREATE TABLE IF NOT EXISTS analysis_log (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		analysis_type TEXT NOT NULL,
		month_year TEXT,
		summary TEXT NOT NULL,
		recommendations TEXT,
		created_at TEXT DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS content_suggestions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		description TEXT,
		submitted_by TEXT NOT NULL,
		priority TEXT NOT NULL DEFAULT 'medium' CHECK(priority IN ('low', 'medium', 'high')),
		channel TEXT NOT NULL DEFAULT 'organic' CHECK(channel IN ('organic', 'paid')),
		link_url TEXT,
		created_at TEXT DEFAULT CURRENT_TIMESTAMP,
		updated_at TEXT DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS suggestion_images (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		suggestion_id INTEGER NOT NULL REFERENCES content_suggestions(id) ON DELETE CASCADE,
		file_name TEXT NOT NULL,
		file_path TEXT NOT NULL,
		uploaded_at TEXT DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS leads (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		email TEXT,
		phone TEXT,
		source TEXT DEFAULT 'meta_ads',
		campaign_name TEXT,
		ad_name TEXT,
		form_name TEXT,
		stage TEXT NOT NULL DEFAULT 'new' CHECK(stage IN ('new','contacted','qualified','enrolled')),
		notes TEXT,
		created_at TEXT DEFAULT CURRENT_TIMESTAMP,
		updated_at TEXT DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS lead_activity (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		lead_id INTEGER NOT NULL REFERENCES leads(id) ON DELETE CASCADE,
		action TEXT NOT NULL,
		details TEXT,
		created_at TEXT DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS ad_campaigns (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		meta_campaign_id TEXT,
		name TEXT NOT NULL,
		objective TEXT,
		status TEXT DEFAULT 'active' CHECK(status IN ('active','paused','completed')),
		daily_budget REAL,
		lifetime_budget REAL,
		start_date TEXT,
		end_date TEXT,
		notes TEXT,
		created_at TEXT DEFAULT CURRENT_TIMESTAMP,
		updated_at TEXT DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS ad_sets (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		campaign_id INTEGER NOT NULL REFERENCES ad_campaigns(id) ON DELETE CASCADE,
		meta_adset_id TEXT,
		name TEXT NOT NULL,
		status TEXT DEFAULT 'active' CHECK(status IN ('active','paused','completed')),
		targeting_summary TEXT,
		created_at TEXT DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS ads (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		ad_set_id INTEGER NOT NULL REFERENCES ad_sets(id) ON DELETE CASCADE,
		meta_ad_id TEXT,
		name TEXT NOT NULL,
		status TEXT DEFAULT 'active' CHECK(status IN ('active','paused','completed')),
		creative_summary TEXT,
		created_at TEXT DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS ad_metrics (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		campaign_id INTEGER REFERENCES ad_campaigns(id),
		ad_set_id INTEGER REFERENCES ad_sets(id),
		ad_id INTEGER REFERENCES ads(id),
		metric_date TEXT NOT NULL,
		spend REAL DEFAULT 0,
		impressions INTEGER DEFAULT 0,
		clicks INTEGER DEFAULT 0,
		conversions INTEGER DEFAULT 0,
		ctr REAL DEFAULT 0,
		cpc REAL DEFAULT 0,
		cpm REAL DEFAULT 0,
		roas REAL DEFAULT 0,
		created_at TEXT DEFAULT CURRENT_TIMESTAMP
	)`,
}

// tables maps every table to whether it carries an updated_at column.
var tables = map[string]bool{
	"content_pillars":      false,
	"scripts":              true,
	"content_calendar":     true,
	"idea_bank":            true,
	"posts_performance":    false,
	"account_snapshots":    false,
	"competitors":          false,
	"competitor_snapshots": false,
	"competitor_posts":     false,
	"analysis_log":         false,
	"content_suggestions":  true,
	"suggestion_images":    false,
	"leads":                true,
	"lead_activity":        false,
	"ad_campaigns":         true,
	"ad_sets":              false,
	"ads":                  false,
	"ad_metrics":           false,
}

var seedStatements = []string{
	`INSERT OR IGNORE INTO content_pillars (name, description, color_hex) VALUES
		('Education', 'Mental health tips, treatment approaches, and recovery education', '#4A90D9'),
		('Affirming Messages', 'Positive, supportive, and affirming content for those in recovery', '#7B68EE'),
		('Community', 'Highlighting the Wavecrest community, team, and SoCal culture', '#20B2AA'),
		('Client Stories', 'UGC and testimonial content (with consent)', '#DDA0DD'),
		('Treatment Info', 'Virtual IOP program details, services, and how to get help', '#F0A050')`,
	`INSERT OR IGNORE INTO competitors (name, handle, platform, profile_url) VALUES
		('Charlie Health', 'charliehealth', 'instagram', 'https://www.instagram.com/charliehealth/'),
		('Novara Recovery Center', 'novararecoverycenter', 'instagram', 'https://www.instagram.com/novararecoverycenter/')`,
}
