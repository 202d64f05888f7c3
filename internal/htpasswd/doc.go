// Package htpasswd reads and writes Apache htpasswd files.
//
// Verification is delegated to github.com/tg123/go-htpasswd. Writing goes
// through Editor, which keeps comments and unknown lines as they were.
//
// Supported hashes:
//
//	$apr1$       Apache MD5 (htpasswd -m, the default here)
//	$2y$         bcrypt (htpasswd -B)
//	$5$ / $6$    SHA-256 / SHA-512 crypt
//	{SHA}        unsalted SHA-1 (htpasswd -s)
package htpasswd
