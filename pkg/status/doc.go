/*
Package status renders sync progress.

	            +-------------+
	            |  TaskQueue  |
	            +------+------+
	                   | ReportProgress(total, remaining)
	      +------------+------------+
	      |            |            |
	+-----+----+ +-----+----+ +-----+----+
	|   Line   | |   Bar    | |   Log    |
	| (plain)  | | (pterm)  | | (zerolog)|
	+----------+ +----------+ +----------+

🎯 Purpose:
- Turns (total, remaining) pairs into something a person can read
- Works in a terminal (Bar), in CI output (Line) and in log files (Log)

⚡ Format:

	syncing 3 of 10 files - 30%

The percentage is rounded up so the last file always shows 100%.

🤝 Interfaces:
- All reporters implement taskqueue.ProgressReporter
- Combine adds per-file result reporters to a progress reporter
*/
package status
