package catalog

// ReleaseStats counts the nodes visited by Release.
type ReleaseStats struct {
	Entries  int
	Commands int
	Options  int
	// Shared counts entries, commands or options reachable from more than one parent.
	// A well formed catalog reports zero.
	Shared int
}

// Total returns the number of released nodes.
func (s ReleaseStats) Total() int {
	return s.Entries + s.Commands + s.Options
}

// Release tears the catalog down in one walk: every entry, then each of its
// commands, then each command's options. Nil nodes are skipped. BulkRef links
// are dropped without being followed. A second call releases nothing.
func (c *Catalog) Release() ReleaseStats {
	var stats ReleaseStats
	if c == nil {
		return stats
	}
	seenEntries := make(map[*Entry]struct{})
	seenCommands := make(map[*Command]struct{})
	seenOptions := make(map[*Option]struct{})

	for i, entry := range c.entries {
		if entry == nil {
			continue
		}
		if _, dup := seenEntries[entry]; dup {
			stats.Shared++
			c.entries[i] = nil
			continue
		}
		seenEntries[entry] = struct{}{}
		stats.Entries++
		for j, cmd := range entry.commands {
			if cmd == nil {
				continue
			}
			if _, dup := seenCommands[cmd]; dup {
				stats.Shared++
				entry.commands[j] = nil
				continue
			}
			seenCommands[cmd] = struct{}{}
			stats.Commands++
			for k, opt := range cmd.Options {
				if opt == nil {
					continue
				}
				if _, dup := seenOptions[opt]; dup {
					stats.Shared++
					cmd.Options[k] = nil
					continue
				}
				seenOptions[opt] = struct{}{}
				stats.Options++
				opt.Label = ""
				opt.Value = nil
				cmd.Options[k] = nil
			}
			cmd.Options = nil
			cmd.Label = ""
			cmd.Payload = nil
			cmd.Detail = ""
			entry.commands[j] = nil
		}
		entry.commands = nil
		entry.Name = ""
		entry.Location = ""
		entry.DirectoryKey = ""
		entry.titleKey = ""
		entry.Bulk = nil
		c.entries[i] = nil
	}
	c.entries = nil
	return stats
}
