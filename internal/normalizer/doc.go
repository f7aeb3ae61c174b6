// Package normalizer turns raw query text and symbol names into the
// tokens the traditional and full-text retrieval backends index and
// search by.
//
// Two modes are distinguished:
//
//	normalizer.New().NormalizeProse("how does authentication work")
//	normalizer.New().NormalizeSymbol("getUserAuthentication")
//
// Prose normalization lowercases, drops stop words and short tokens, and
// stems. Symbol normalization splits camelCase and snake_case names into
// their constituent words, lowercases them, drops single-character words
// (but no stop words), and stems, so that
// "getUserAuthentication" and "user_authentication_handler" both produce
// the token "authent" among others.
package normalizer
