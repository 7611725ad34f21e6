// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package search ranks catalog entries against a free-text query.
//
// Matching is a case-insensitive substring test using Unicode case folding.
// Every matching field adds its weight to the score:
//
//	name equals query        100
//	name contains query       75
//	title contains query      50
//	description contains      25
//	any tag contains          15
//	category contains         10
//
// Results are sorted by descending score; equal scores keep catalog order.
// Once the catalog is populated, results are kept in a bounded LRU cache.
package search
