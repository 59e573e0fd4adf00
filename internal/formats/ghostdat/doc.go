// Package ghostdat renders the Ghost-DAT replay file (contest.dat) consumed
// by Codeforces gym ghost contests.
package ghostdat
