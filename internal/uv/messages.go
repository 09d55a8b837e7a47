package uv

import (
	"fmt"
	"html"
	"strings"
	"time"
)

// Formatter renders Telegram HTML messages for a location.
type Formatter struct {
	Location  string
	Threshold float64
	Zone      *time.Location
}

func (f Formatter) zone() *time.Location {
	if f.Zone == nil {
		return time.Local
	}
	return f.Zone
}

func (f Formatter) place() string {
	return html.EscapeString(f.Location)
}

func (f Formatter) stamp(now time.Time) string {
	local := now.In(f.zone())
	return fmt.Sprintf("🕐 Time: %s\n📅 Date: %s", local.Format("15:04"), local.Format("02/01/2006"))
}

func formatUV(v float64) string {
	return fmt.Sprintf("%.1f", v)
}

// Danger renders the alert sent when UV crosses the threshold upward.
func (f Formatter) Danger(intent Intent, now time.Time) string {
	level := LevelFor(intent.Reading.Value)
	var b strings.Builder
	fmt.Fprintf(&b, "⚠️ <b>UV ALERT - %s</b> ⚠️\n\n", f.place())
	fmt.Fprintf(&b, "%s UV index: <b>%s</b> (%s)\n\n", level.Emoji, formatUV(intent.Reading.Value), level.Label)
	fmt.Fprintf(&b, "🌡️ UV radiation is above the safe threshold (%s)\n\n", formatUV(f.Threshold))
	fmt.Fprintf(&b, "⏱️ <b>Maximum unprotected exposure: %d minutes</b>\n\n", intent.SafeMinutes)
	b.WriteString("⚠️ <b>NOTE:</b> this time is already halved for photosensitising medication.\n\n")
	b.WriteString("🧴 <b>Recommendations:</b>\n")
	b.WriteString("• Avoid direct sun\n• Use SPF 50+ sunscreen\n• Cover your skin\n• Wear a hat and sunglasses\n• Stay in the shade\n\n")
	b.WriteString(f.stamp(now))
	return b.String()
}

// Safe renders the message sent when UV drops back below the threshold.
func (f Formatter) Safe(intent Intent, now time.Time) string {
	level := LevelFor(intent.Reading.Value)
	var b strings.Builder
	fmt.Fprintf(&b, "✅ <b>UV SAFE - %s</b> ✅\n\n", f.place())
	fmt.Fprintf(&b, "%s UV index: <b>%s</b> (%s)\n\n", level.Emoji, formatUV(intent.Reading.Value), level.Label)
	fmt.Fprintf(&b, "🌤️ UV radiation dropped below the danger threshold (%s).\n\n", formatUV(f.Threshold))
	b.WriteString("💡 Normal precautions for your skin type apply.\n\n")
	b.WriteString(f.stamp(now))
	return b.String()
}

// Reminder renders the reapply reminder for rec.
func (f Formatter) Reminder(rec SunscreenRecord, now time.Time) string {
	left := int(rec.ExpiresAt.Sub(now).Round(time.Minute).Minutes())
	var b strings.Builder
	b.WriteString("🧴 <b>Time to reapply sunscreen</b>\n\n")
	fmt.Fprintf(&b, "Your SPF %d protection expires at <b>%s</b> (%d min left).\n\n",
		rec.SPF, rec.ExpiresAt.In(f.zone()).Format("15:04"), max(left, 0))
	b.WriteString("Send /sunscreen after reapplying.")
	return b.String()
}

// Applied renders the reply to a sunscreen application.
func (f Formatter) Applied(rec SunscreenRecord, corrected bool) string {
	var b strings.Builder
	b.WriteString("🧴 <b>Sunscreen registered</b>\n\n")
	if corrected {
		fmt.Fprintf(&b, "ℹ️ SPF must be between %d and %d; using SPF %d.\n\n", MinSPF, MaxSPF, DefaultSPF)
	}
	fmt.Fprintf(&b, "SPF: <b>%d</b>\n", rec.SPF)
	fmt.Fprintf(&b, "UV at application: <b>%s</b>\n", formatUV(rec.UVAtApplication))
	fmt.Fprintf(&b, "Protection: <b>%d minutes</b>\n", rec.ProtectionMinutes)
	fmt.Fprintf(&b, "Expires at: <b>%s</b>\n\n", rec.ExpiresAt.In(f.zone()).Format("15:04"))
	fmt.Fprintf(&b, "I will remind you %d minutes before it expires.", int(ReminderLead.Minutes()))
	return b.String()
}

// StatusReport renders the reply to a status query.
func (f Formatter) StatusReport(st Status) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📍 <b>UV status - %s</b>\n\n", f.place())
	if st.State.LastUpdated.IsZero() {
		b.WriteString("No UV reading yet.\n")
	} else {
		fmt.Fprintf(&b, "%s UV index: <b>%s</b> (%s)\n", st.Level.Emoji, formatUV(st.State.CurrentValue), st.Level.Label)
		if st.State.IsDangerous {
			fmt.Fprintf(&b, "⚠️ Above threshold (%s). Safe exposure: %d min\n", formatUV(st.Threshold), st.SafeMinutes)
		} else {
			fmt.Fprintf(&b, "✅ Below threshold (%s)\n", formatUV(st.Threshold))
		}
		if st.Burn.NoRisk() {
			b.WriteString("🔥 No burn risk right now\n")
		} else {
			fmt.Fprintf(&b, "🔥 Burn time: %d min (photosensitive: %d min)\n", st.Burn.Normal, st.Burn.Photosensitive)
		}
		fmt.Fprintf(&b, "🕐 Updated: %s\n", st.State.LastUpdated.In(f.zone()).Format("15:04"))
	}

	b.WriteString("\n")
	switch {
	case st.Sunscreen == nil:
		b.WriteString("🧴 No sunscreen registered today.")
	case st.ProtectionRemaining > 0:
		fmt.Fprintf(&b, "🧴 SPF %d active until %s (%d min left).",
			st.Sunscreen.SPF, st.Sunscreen.ExpiresAt.In(f.zone()).Format("15:04"), st.ProtectionRemaining)
	default:
		fmt.Fprintf(&b, "🧴 SPF %d expired at %s. Reapply and send /sunscreen.",
			st.Sunscreen.SPF, st.Sunscreen.ExpiresAt.In(f.zone()).Format("15:04"))
	}
	return b.String()
}

// Render picks the message for intent. Reminder intents need rec.
func (f Formatter) Render(intent Intent, rec SunscreenRecord, now time.Time) string {
	switch intent.Kind {
	case IntentDanger:
		return f.Danger(intent, now)
	case IntentSafe:
		return f.Safe(intent, now)
	default:
		return f.Reminder(rec, now)
	}
}
