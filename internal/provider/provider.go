// Package provider contains the SQL-backed activity data sources the report
// engine aggregates: door access, events, badges, tool lending, appointments,
// and membership. Each repository owns its queries; the report engine only
// sees the interfaces it defines itself.
package provider

// activeMemberCond is the single definition of the "active member" population
// used by every ranking and leaderboard query. A member is active when their
// account is enabled and they either hold a qualifying membership role or are
// exempted via an explicit payment pause. Queries embedding this fragment must
// alias the members table as m.
const activeMemberCond = `
	m.status = 1
	AND (
		EXISTS (
			SELECT 1 FROM member_roles r
			WHERE r.member_id = m.id AND r.role IN ('member', 'current_member')
		)
		OR m.payment_pause
	)`
