/*
Package config loads theme environments from a config file.

	            +-------------+
	            | config.yml  |
	            | config.json |
	            | config.hcl  |
	            +------+------+
	                   |
	      +------------+------------+
	      |            |            |
	+-----+----+ +-----+----+ +-----+----+
	|   YAML   | |   JSON   | |   HCL    |
	|  Parser  | |  Parser  | |  Parser  |
	+-----+----+ +-----+----+ +-----+----+
	      |            |            |
	      +------------+------------+
	                   |
	            +------+------+
	            | Environment |
	            +-------------+

🎯 Purpose:
- Maps a theme name ("development", "production", ...) to its store credentials
- Picks the parser from the file extension
- Expands ${VAR} references from the process environment

🔄 Flow:
1. LoadFile reads and parses the file
2. File.Environment selects one theme by name
3. String values are expanded and the result is validated

📝 Example (YAML):

	development:
	  password: ${THEME_TOKEN}
	  store: example.myshopify.com
	  theme_id: 123456789
	  ignore_files:
	    - "config/settings_data.json"

HCL files use one environment block per theme and can read env.NAME:

	environment "development" {
	  password = env.THEME_TOKEN
	  store    = "example.myshopify.com"
	  theme_id = "123456789"
	}
*/
package config
