// Apex Recommender - Content-Based Course Recommendation Service
// Copyright 2026 Apex Learning
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/apex-learning/course-recommender

package catalog

// Timestamps are stored as BIGINT Unix microseconds. Both drivers then
// order and scan them identically.
const createCoursesTable = `
CREATE TABLE IF NOT EXISTS apex_courses (
	id                VARCHAR PRIMARY KEY,
	title             VARCHAR NOT NULL,
	description       VARCHAR NOT NULL DEFAULT '',
	instructor        VARCHAR NOT NULL DEFAULT '',
	price             DOUBLE  NOT NULL DEFAULT 0,
	category          VARCHAR NOT NULL DEFAULT '',
	difficulty        VARCHAR NOT NULL DEFAULT '',
	video_url         VARCHAR NOT NULL DEFAULT '',
	cover_image       VARCHAR NOT NULL DEFAULT '',
	tags              VARCHAR NOT NULL DEFAULT '',
	duration_hours    BIGINT  NOT NULL DEFAULT 0,
	total_enrollments BIGINT  NOT NULL DEFAULT 0,
	average_rating    DOUBLE  NOT NULL DEFAULT 0,
	platform          VARCHAR NOT NULL DEFAULT '',
	external_url      VARCHAR NOT NULL DEFAULT '',
	thumbnail_url     VARCHAR NOT NULL DEFAULT '',
	is_published      BOOLEAN NOT NULL DEFAULT TRUE,
	created_at        BIGINT  NOT NULL,
	updated_at        BIGINT  NOT NULL
)`

// courseColumns is the shared column list for SELECT and INSERT.
const courseColumns = `id, title, description, instructor, price, category, difficulty,
	video_url, cover_image, tags, duration_hours, total_enrollments, average_rating,
	platform, external_url, thumbnail_url, is_published, created_at, updated_at`

const selectPublished = `SELECT ` + courseColumns + `
	FROM apex_courses
	WHERE is_published
	ORDER BY created_at, id`

const selectByID = `SELECT ` + courseColumns + `
	FROM apex_courses
	WHERE id = ?`

// upsertCourse keeps the original created_at so an edited course holds its
// place in the corpus order.
const upsertCourse = `INSERT INTO apex_courses (` + courseColumns + `)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT (id) DO UPDATE SET
		title = excluded.title,
		description = excluded.description,
		instructor = excluded.instructor,
		price = excluded.price,
		category = excluded.category,
		difficulty = excluded.difficulty,
		video_url = excluded.video_url,
		cover_image = excluded.cover_image,
		tags = excluded.tags,
		duration_hours = excluded.duration_hours,
		total_enrollments = excluded.total_enrollments,
		average_rating = excluded.average_rating,
		platform = excluded.platform,
		external_url = excluded.external_url,
		thumbnail_url = excluded.thumbnail_url,
		is_published = excluded.is_published,
		updated_at = excluded.updated_at`

const updatePublished = `UPDATE apex_courses
	SET is_published = ?, updated_at = ?
	WHERE id = ?`

const countCourses = `SELECT
	COUNT(*),
	CAST(COALESCE(SUM(CASE WHEN is_published THEN 1 ELSE 0 END), 0) AS BIGINT)
	FROM apex_courses`
